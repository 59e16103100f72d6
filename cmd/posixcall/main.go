//go:build linux

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	posixruntime "github.com/xcbridge/posix-runtime"
	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/param"
	"github.com/xcbridge/posix-runtime/registry"
)

// NotFoundCodes names the errno values that make sense as a negative-lookup
// policy code.
var NotFoundCodes = param.MustNew(
	param.Entry{Name: "ENOENT", Value: int(unix.ENOENT)},
	param.Entry{Name: "ESRCH", Value: int(unix.ESRCH)},
	param.Entry{Name: "ENXIO", Value: int(unix.ENXIO)},
	param.Entry{Name: "ENODATA", Value: int(unix.ENODATA)},
)

func main() {
	var (
		opName      = flag.String("op", "", "Operation to call (see -list)")
		argStr      = flag.String("args", "", "Input arguments, comma-separated")
		envFile     = flag.String("env", "", "Load configuration from a dotenv file")
		list        = flag.Bool("list", false, "List operations and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if !*list && !*interactive && *opName == "" {
		fmt.Fprintln(os.Stderr, "Usage: posixcall -op <name> [-args a,b,c]")
		fmt.Fprintln(os.Stderr, "       posixcall -list")
		fmt.Fprintln(os.Stderr, "       posixcall -i  (interactive mode)")
		os.Exit(1)
	}

	opts, err := loadOptions(*envFile, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, *opName, *argStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadOptions assembles bridge options from a dotenv file (if given) and the
// process environment. POSIXCALL_CAPACITY bounds the handle registry and
// POSIXCALL_NOTFOUND names the errno forced on negative lookups.
func loadOptions(envFile string, verbose bool) ([]bridge.Option, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var opts []bridge.Option
	if v := os.Getenv("POSIXCALL_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("POSIXCALL_CAPACITY: %w", err)
		}
		opts = append(opts, bridge.WithCapacity(n))
	}
	if v := os.Getenv("POSIXCALL_NOTFOUND"); v != "" {
		code, err := NotFoundCodes.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("POSIXCALL_NOTFOUND: %w", err)
		}
		opts = append(opts, bridge.WithNotFoundCode(unix.Errno(code)))
	}
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, bridge.WithLogger(log))
	}
	return opts, nil
}

func run(opts []bridge.Option, opName, argStr string, listOnly bool) error {
	b, err := posixruntime.New(opts...)
	if err != nil {
		return err
	}
	defer b.Close()

	if listOnly {
		for _, op := range b.Ops() {
			fmt.Printf("  %s\n", signature(op))
		}
		return nil
	}

	op, ok := b.Lookup(opName)
	if !ok {
		return fmt.Errorf("no operation named %q (see -list)", opName)
	}

	var inputs []string
	if argStr != "" {
		inputs = strings.Split(argStr, ",")
	}
	args, err := bindArgs(op, inputs)
	if err != nil {
		return err
	}

	o, err := b.Call(opName, args...)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", opName, o)
	for i, p := range op.Params {
		if v, ok := renderOut(p, args[i]); ok {
			fmt.Printf("  %s = %s\n", p.Name, v)
		}
	}
	return nil
}

// bindArgs pairs the user's comma-separated values with the operation's
// input parameters and allocates fresh destinations for the outputs.
func bindArgs(op *bridge.Op, inputs []string) ([]any, error) {
	args := make([]any, 0, len(op.Params))
	next := 0
	take := func(p bridge.Param) (string, error) {
		if next >= len(inputs) {
			return "", fmt.Errorf("missing value for %s", p.Name)
		}
		v := inputs[next]
		next++
		return v, nil
	}

	for _, p := range op.Params {
		switch p.Kind {
		case bridge.ParamString:
			v, err := take(p)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		case bridge.ParamInt:
			v, err := take(p)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			args = append(args, n)
		case bridge.ParamUint, bridge.ParamHandle:
			v, err := take(p)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseUint(v, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			if p.Kind == bridge.ParamHandle {
				args = append(args, registry.Handle(n))
			} else {
				args = append(args, n)
			}
		case bridge.ParamOutInt:
			args = append(args, new(int64))
		case bridge.ParamOutUint:
			args = append(args, new(uint64))
		case bridge.ParamOutBuf:
			args = append(args, bridge.NewBuffer(p.Size))
		}
	}
	if next < len(inputs) {
		return nil, fmt.Errorf("%d extra argument(s)", len(inputs)-next)
	}
	return args, nil
}

func renderOut(p bridge.Param, arg any) (string, bool) {
	switch p.Kind {
	case bridge.ParamOutInt:
		return strconv.FormatInt(*arg.(*int64), 10), true
	case bridge.ParamOutUint:
		return strconv.FormatUint(*arg.(*uint64), 10), true
	case bridge.ParamOutBuf:
		return strconv.Quote(arg.(*bridge.Buffer).String()), true
	}
	return "", false
}

func signature(op *bridge.Op) string {
	var parts []string
	for _, p := range op.Params {
		parts = append(parts, p.Name+": "+p.Hint())
	}
	s := op.Name + "(" + strings.Join(parts, ", ") + ")"
	if op.Doc != "" {
		s += "  " + op.Doc
	}
	return s
}
