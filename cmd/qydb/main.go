package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/TFAGaming/quick-yaml.db/internal/logger"
	qydb "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1"
	qyerrors "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/errors"
	qystore "github.com/TFAGaming/quick-yaml.db/pkg/qydb/v1/store"
)

const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitUsageError  = 2
	DefaultLogLevel = "warn"
	DefaultLogFmt   = "text"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) == 2 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		printVersion()
		os.Exit(ExitSuccess)
	}
	os.Exit(run(os.Args[1:]))
}

func printVersion() {
	fmt.Printf("qydb version %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	fmt.Printf("built: %s\n", buildDate)
	fmt.Printf("go version: %s\n", runtime.Version())
	fmt.Printf("os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func run(args []string) int {
	flags := flag.NewFlagSet("qydb", flag.ExitOnError)
	filePath := flags.String("file", "", "Path to the YAML document file (required)")
	logLevel := flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	logFormat := flags.String("log-format", DefaultLogFmt, "Log format (text, json)")
	noCache := flags.Bool("no-cache", false, "Re-decode the file on every read instead of caching")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -file <path> <command> [args...]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Inspect and mutate a quick-yaml.db document file.")
		fmt.Fprintln(os.Stderr, "\nCommands:")
		fmt.Fprintln(os.Stderr, "  get <variable>                 Print the value of a variable")
		fmt.Fprintln(os.Stderr, "  set <variable> <value>         Set a variable (value parsed as YAML)")
		fmt.Fprintln(os.Stderr, "  delete <variable>...           Delete variables")
		fmt.Fprintln(os.Stderr, "  push <variable> <value>...     Append values to a sequence variable")
		fmt.Fprintln(os.Stderr, "  pull <variable> <value>...     Remove matching values from a sequence variable")
		fmt.Fprintln(os.Stderr, "  keys                           Print all variables in document order")
		fmt.Fprintln(os.Stderr, "  entries                        Print all variable/value pairs")
		fmt.Fprintln(os.Stderr, "  size                           Print the number of variables")
		fmt.Fprintln(os.Stderr, "  clear                          Empty the document (zero-length file)")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return ExitUsageError
	}
	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -file flag is required")
		flags.Usage()
		return ExitUsageError
	}
	if *logFormat != "text" && *logFormat != "json" {
		fmt.Fprintln(os.Stderr, "Error: -log-format must be 'text' or 'json'")
		return ExitUsageError
	}
	rest := flags.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "Error: a command is required")
		flags.Usage()
		return ExitUsageError
	}

	log := logger.NewLogger(*logLevel, *logFormat, os.Stderr)

	opts := []qydb.StoreOption{qydb.WithLogger(log)}
	if *noCache {
		opts = append(opts, qydb.WithoutCache())
	}

	db, err := qydb.New(*filePath, opts...)
	if err != nil {
		if qyerrors.IsNotFound(err) {
			fmt.Fprintf(os.Stderr, "Error: document file '%s' does not exist (the store never creates it)\n", *filePath)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return ExitFailure
	}
	defer db.Close()

	if err := dispatch(db, rest[0], rest[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func dispatch(db qystore.Store, command string, args []string) error {
	switch command {
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get <variable>")
		}
		value, exists, err := db.Get(args[0])
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("variable '%s' not found", args[0])
		}
		return printYAML(value)

	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: set <variable> <value>")
		}
		return db.Set(args[0], parseValue(args[1]))

	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("usage: delete <variable>...")
		}
		return db.Purge(args...)

	case "push":
		if len(args) < 2 {
			return fmt.Errorf("usage: push <variable> <value>...")
		}
		length, err := db.Push(args[0], parseValues(args[1:])...)
		if err != nil {
			return err
		}
		if length < 0 {
			return fmt.Errorf("variable '%s' not found", args[0])
		}
		fmt.Println(length)
		return nil

	case "pull":
		if len(args) < 2 {
			return fmt.Errorf("usage: pull <variable> <value>...")
		}
		length, err := db.Pull(args[0], parseValues(args[1:])...)
		if err != nil {
			return err
		}
		if length < 0 {
			return fmt.Errorf("variable '%s' not found", args[0])
		}
		fmt.Println(length)
		return nil

	case "keys":
		keys, err := db.Keys()
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil

	case "entries":
		entries, err := db.Entries()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s: ", e.Variable)
			if err := printYAML(e.Value); err != nil {
				return err
			}
		}
		return nil

	case "size":
		size, err := db.Size()
		if err != nil {
			return err
		}
		fmt.Println(size)
		return nil

	case "clear":
		return db.Clear()

	default:
		return fmt.Errorf("unknown command '%s'", command)
	}
}

// parseValue interprets a CLI argument as a YAML scalar or structure, so
// `set age 24` stores a number and `set tags '[a, b]'` stores a sequence.
// Unparseable input falls back to the raw string.
func parseValue(arg string) interface{} {
	var value interface{}
	if err := yaml.Unmarshal([]byte(arg), &value); err != nil {
		return arg
	}
	return value
}

func parseValues(args []string) []interface{} {
	values := make([]interface{}, len(args))
	for i, a := range args {
		values[i] = parseValue(a)
	}
	return values
}

func printYAML(value interface{}) error {
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
