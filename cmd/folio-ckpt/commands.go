package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame/checkpoint"
	"github.com/pterm/pterm"
)

// Op is a command code.
type Op int

// Commands of the interpreter
const (
	QUIT Op = iota
	HELP
	SESSIONS
	USE
	PAGES
	SHOW
	YAML
	SAME
	DELETE
)

var commands = map[string]struct {
	op    Op
	nargs int
	usage string
}{
	"quit":     {QUIT, 0, "quit                  leave the inspector"},
	"help":     {HELP, 0, "help                  print this list"},
	"sessions": {SESSIONS, 0, "sessions              list stored layout sessions"},
	"use":      {USE, 1, "use <session>         select a session (unique prefix suffices)"},
	"pages":    {PAGES, 0, "pages                 list pages with a checkpoint"},
	"show":     {SHOW, 1, "show <page>           summarize the checkpoint of a page"},
	"yaml":     {YAML, 1, "yaml <page>           print the checkpoint record of a page"},
	"same":     {SAME, 2, "same <page> <page>    compare the positions of two checkpoints"},
	"delete":   {DELETE, 1, "delete <session>      delete a session"},
}

// Command is a parsed input line.
type Command struct {
	op   Op
	args []string
}

func parseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, core.Error(core.EINVALID, "empty command")
	}
	c, ok := commands[strings.ToLower(fields[0])]
	if !ok {
		return nil, core.Error(core.EINVALID, "unknown command %q, try 'help'", fields[0])
	}
	if len(fields)-1 != c.nargs {
		return nil, core.Error(core.EINVALID, "usage: %s", c.usage)
	}
	return &Command{op: c.op, args: fields[1:]}, nil
}

func (cmd *Command) page(i int) (int, error) {
	n, err := strconv.Atoi(cmd.args[i])
	if err != nil {
		return 0, core.Error(core.EINVALID, "not a page number: %q", cmd.args[i])
	}
	return n, nil
}

func (intp *Intp) execute(ctx context.Context, cmd *Command) (bool, error) {
	tracer().Debugf("cmd = %v %v", cmd.op, cmd.args)
	switch cmd.op {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case SESSIONS:
		return false, intp.listSessions(ctx)
	case USE:
		return false, intp.use(ctx, cmd.args[0])
	case DELETE:
		id, err := intp.resolveSession(ctx, cmd.args[0])
		if err != nil {
			return false, err
		}
		if err := intp.store.Delete(ctx, id); err != nil {
			return false, err
		}
		if id == intp.session {
			intp.session = ""
		}
		pterm.Info.Printfln("deleted session %s", id)
	default:
		if intp.session == "" {
			return false, core.Error(core.EINVALID, "no session selected, try 'use'")
		}
		return false, intp.inspect(ctx, cmd)
	}
	return false, nil
}

func (intp *Intp) inspect(ctx context.Context, cmd *Command) error {
	switch cmd.op {
	case PAGES:
		pages, err := intp.store.Pages(ctx, intp.session)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("%d checkpoint(s): %v", len(pages), pages)
	case SHOW, YAML:
		page, err := cmd.page(0)
		if err != nil {
			return err
		}
		rec, err := intp.store.LoadRecord(ctx, intp.session, page)
		if err != nil {
			return err
		}
		if cmd.op == SHOW {
			return showRecord(rec)
		}
		data, err := checkpoint.ToYAML(rec)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case SAME:
		same, err := intp.same(ctx, cmd)
		if err != nil {
			return err
		}
		if same {
			pterm.Info.Println("positions are the same")
		} else {
			pterm.Info.Println("positions differ")
		}
	}
	return nil
}

func (intp *Intp) same(ctx context.Context, cmd *Command) (bool, error) {
	var recs [2]*checkpoint.LayoutRecord
	for i := range recs {
		page, err := cmd.page(i)
		if err != nil {
			return false, err
		}
		if recs[i], err = intp.store.LoadRecord(ctx, intp.session, page); err != nil {
			return false, err
		}
	}
	// positions of different pages are never the same; compare content only
	b := *recs[1]
	b.Page = recs[0].Page
	return checkpoint.SamePosition(recs[0], &b), nil
}

func (intp *Intp) listSessions(ctx context.Context) error {
	sessions, err := intp.store.Sessions(ctx)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Session", "Document", "Created", "Pages"}}
	for _, s := range sessions {
		data = append(data, []string{s.ID, s.DocURL,
			s.Created.Format("2006-01-02 15:04:05"), strconv.Itoa(s.Pages)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) use(ctx context.Context, prefix string) error {
	id, err := intp.resolveSession(ctx, prefix)
	if err != nil {
		return err
	}
	intp.session = id
	pterm.Info.Printfln("using session %s", id)
	return nil
}

// resolveSession finds the session whose ID starts with prefix.
func (intp *Intp) resolveSession(ctx context.Context, prefix string) (string, error) {
	sessions, err := intp.store.Sessions(ctx)
	if err != nil {
		return "", err
	}
	var found []string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, prefix) {
			found = append(found, s.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", core.WrapError(checkpoint.ErrNotFound, core.EMISSING, "no session %s", prefix)
	case 1:
		return found[0], nil
	}
	return "", core.Error(core.EINVALID, "session prefix %s is ambiguous", prefix)
}

func showRecord(rec *checkpoint.LayoutRecord) error {
	pterm.Info.Printfln("page %d, highest seen offset %d, %d chunk(s)",
		rec.Page, rec.HighestSeenOffset, len(rec.Chunks))
	data := pterm.TableData{{"Flow", "Start side", "Pending", "Next chunk", "At"}}
	for _, fp := range rec.Positions {
		next, at := "-", "-"
		if len(fp.Chunks) > 0 {
			first := fp.Chunks[0]
			if first.Chunk >= 0 && first.Chunk < len(rec.Chunks) {
				if elem := rec.Chunks[first.Chunk].Element; elem != nil {
					next = elem.Path
				}
			}
			at = describe(first.Primary)
		}
		data = append(data, []string{fp.Flow, fp.StartSide,
			strconv.Itoa(len(fp.Chunks)), next, at})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func describe(np *checkpoint.NodePositionRecord) string {
	if np == nil || len(np.Steps) == 0 {
		return "-"
	}
	leaf := np.Steps[len(np.Steps)-1].Node.Path
	if np.After {
		return fmt.Sprintf("after %s", leaf)
	}
	return fmt.Sprintf("%s@%d", leaf, np.OffsetInNode)
}

func help() {
	names := []string{"sessions", "use", "pages", "show", "yaml", "same", "delete", "help", "quit"}
	for _, name := range names {
		pterm.Println("  " + commands[name].usage)
	}
}
