/*
Command folio-ckpt inspects stored layout checkpoints.

Usage:

	folio-ckpt [-config folio.yaml] [-store folio.db] [-trace Info]

Type "help" at the prompt for a list of commands.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/config"
	"github.com/npillmayer/folio/engine/frame/checkpoint"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// tracer traces with key 'folio.ckpt'
func tracer() tracing.Trace {
	return tracing.Select("folio.ckpt")
}

func main() {
	initDisplay()

	// command line flags
	confFile := flag.String("config", "", "Configuration file (YAML)")
	storePath := flag.String("store", "", "Checkpoint store, overrides configuration")
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()

	// set up logging
	conf, err := loadConfig(*confFile)
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		os.Exit(1)
	}
	conf.Set(config.TracePrefix+".folio.ckpt", *tlevel)
	if *storePath != "" {
		conf.Set(config.KeyStore, *storePath)
	}
	if err := config.SetupTracing(conf); err != nil {
		fmt.Printf("error configuring tracing: %v\n", err)
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to the folio checkpoint inspector") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// open the checkpoint store
	path := conf.GetString(config.KeyStore)
	store, err := checkpoint.OpenStore(path,
		checkpoint.WithBusyTimeout(conf.GetInt(config.KeyBusyTimeout)))
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	defer store.Close()
	pterm.Info.Printfln("Using store %s", path)
	//
	// set up REPL
	repl, err := readline.New("ckpt > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, store: store}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.Load(path)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl    *readline.Instance
	store   *checkpoint.Store
	session string
}

// REPL starts interactive mode.
func (intp *Intp) REPL(ctx context.Context) {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := intp.execute(ctx, cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}
