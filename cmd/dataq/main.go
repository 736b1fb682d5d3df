// Command dataq provides a CLI tool for creating, exercising and
// inspecting DataQueue queues.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rmmiranda/DataQueue"
	"github.com/rmmiranda/DataQueue/internal/logging"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "version" {
		fmt.Printf("dataq version %s\n", version)
		return
	}
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg := loadConfig()
	eng, err := dataqueue.New(cfg.BaseDir,
		dataqueue.WithLogger(logging.NewZap(cfg.LogLevel, cfg.LogFormat)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening base directory: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "create":
		handleCreate(eng)
	case "destroy":
		handleDestroy(eng)
	case "enqueue":
		handleEnqueue(eng)
	case "dequeue":
		handleDequeue(eng)
	case "peek":
		handlePeek(eng)
	case "seek":
		handleSeek(eng)
	case "length":
		handleLength(eng)
	case "stats":
		handleStats(eng)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("DataQueue CLI Tool - Queue Management and Inspection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dataq <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create <name> <max-entries> <max-entry-size> [log|seekable]...")
	fmt.Println("                                 Create a queue")
	fmt.Println("  destroy <name>                 Destroy a queue")
	fmt.Println("  enqueue <name> <data>...       Enqueue one entry per argument")
	fmt.Println("  dequeue <name> [count]         Dequeue and print entries")
	fmt.Println("  peek <name> [count]            Read entries at the seek cursor without consuming")
	fmt.Println("  seek <name> head|tail|<pos>    Position the seek cursor")
	fmt.Println("  length <name>                  Print the number of entries")
	fmt.Println("  stats <name>                   Show queue statistics")
	fmt.Println("  version                        Show version information")
	fmt.Println("  help                           Show this help message")
	fmt.Println()
	fmt.Println("Configuration is read from dataq.yaml (working directory or")
	fmt.Println("~/.config/dataq) and DATAQ_* environment variables:")
	fmt.Println("  base_dir, log_level, log_format")
}

func requireArg(n int, usage string) string {
	if len(os.Args) <= n {
		fmt.Fprintf(os.Stderr, "Error: missing argument\nUsage: dataq %s\n", usage)
		os.Exit(1)
	}
	return os.Args[n]
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func handleCreate(eng *dataqueue.Engine) {
	name := requireArg(2, "create <name> <max-entries> <max-entry-size> [log|seekable]...")
	maxEntries, err := strconv.Atoi(requireArg(3, "create <name> <max-entries> <max-entry-size>"))
	if err != nil {
		fatal(fmt.Errorf("bad max-entries: %w", err))
	}
	maxEntrySize, err := strconv.Atoi(requireArg(4, "create <name> <max-entries> <max-entry-size>"))
	if err != nil {
		fatal(fmt.Errorf("bad max-entry-size: %w", err))
	}

	var flags uint16
	for _, arg := range os.Args[5:] {
		switch arg {
		case "log":
			flags |= dataqueue.FlagMessageLog
		case "seekable":
			flags |= dataqueue.FlagRandomAccess
		default:
			fatal(fmt.Errorf("unknown flag %q (want log or seekable)", arg))
		}
	}

	if err := eng.Create(name, maxEntries, maxEntrySize, flags); err != nil {
		fatal(err)
	}
	fmt.Printf("Created queue %q (capacity %d, entry size %d)\n", name, maxEntries, maxEntrySize)
}

func handleDestroy(eng *dataqueue.Engine) {
	name := requireArg(2, "destroy <name>")
	if err := eng.Destroy(name); err != nil {
		fatal(err)
	}
	fmt.Printf("Destroyed queue %q\n", name)
}

func handleEnqueue(eng *dataqueue.Engine) {
	name := requireArg(2, "enqueue <name> <data>...")
	requireArg(3, "enqueue <name> <data>...")

	h, err := eng.Open(name, dataqueue.WriteOnly, dataqueue.BinaryPacked)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = eng.Close(h) }()

	for _, data := range os.Args[3:] {
		if err := eng.Enqueue(h, []byte(data)); err != nil {
			fatal(err)
		}
	}
	fmt.Printf("Enqueued %d entries\n", len(os.Args[3:]))
}

func handleDequeue(eng *dataqueue.Engine) {
	name := requireArg(2, "dequeue <name> [count]")
	count := optionalCount(3)

	h, err := eng.Open(name, dataqueue.ReadWrite, dataqueue.BinaryPacked)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = eng.Close(h) }()

	for i := 0; i < count; i++ {
		data, err := eng.Dequeue(h)
		if errors.Is(err, dataqueue.ErrQueueEmpty) {
			fmt.Println("(queue empty)")
			return
		}
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s\n", data)
	}
}

func handlePeek(eng *dataqueue.Engine) {
	name := requireArg(2, "peek <name> [count]")
	count := optionalCount(3)

	h, err := eng.Open(name, dataqueue.ReadOnly, dataqueue.BinaryPacked)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = eng.Close(h) }()

	for i := 0; i < count; i++ {
		data, err := eng.GetEntry(h)
		if errors.Is(err, dataqueue.ErrQueueEmpty) {
			fmt.Println("(queue empty)")
			return
		}
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s\n", data)
	}
}

func handleSeek(eng *dataqueue.Engine) {
	name := requireArg(2, "seek <name> head|tail|<pos>")
	target := requireArg(3, "seek <name> head|tail|<pos>")

	h, err := eng.Open(name, dataqueue.ReadOnly, dataqueue.BinaryPacked)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = eng.Close(h) }()

	switch target {
	case "head":
		err = eng.Seek(h, dataqueue.SeekHead, 0)
	case "tail":
		err = eng.Seek(h, dataqueue.SeekTail, 0)
	default:
		pos, convErr := strconv.Atoi(target)
		if convErr != nil {
			fatal(fmt.Errorf("bad seek target %q (want head, tail or a position)", target))
		}
		err = eng.Seek(h, dataqueue.SeekPosition, pos)
	}
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Seek cursor positioned at %s\n", target)
}

func handleLength(eng *dataqueue.Engine) {
	name := requireArg(2, "length <name>")

	h, err := eng.Open(name, dataqueue.ReadOnly, dataqueue.BinaryPacked)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = eng.Close(h) }()

	n, err := eng.Length(h)
	if err != nil {
		fatal(err)
	}
	fmt.Println(n)
}

func handleStats(eng *dataqueue.Engine) {
	name := requireArg(2, "stats <name>")

	info, err := eng.Stat(name)
	if err != nil {
		fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Queue Statistics")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "Name:\t%s\n", info.Name)
	fmt.Fprintf(w, "Entries:\t%d / %d\n", info.Length, info.MaxEntries)
	fmt.Fprintf(w, "Max Entry Size:\t%d\n", info.MaxEntrySize)
	fmt.Fprintf(w, "Payload Bytes:\t%d\n", info.Bytes)
	fmt.Fprintf(w, "Reference Count:\t%d\n", info.RefCount)
	fmt.Fprintf(w, "Head/Tail/Seek:\t%d / %d / %d\n", info.HeadOffs, info.TailOffs, info.SeekOffs)
	fmt.Fprintf(w, "Message Log:\t%v\n", info.Flags&dataqueue.FlagMessageLog != 0)
	fmt.Fprintf(w, "Random Access:\t%v\n", info.Flags&dataqueue.FlagRandomAccess != 0)

	switch {
	case info.RWHeld:
		fmt.Fprintf(w, "Lock:\tread-write\n")
	case info.WriteHeld:
		fmt.Fprintf(w, "Lock:\twrite-only\n")
	case info.Readers > 0:
		fmt.Fprintf(w, "Lock:\tread-only (%d readers)\n", info.Readers)
	default:
		fmt.Fprintf(w, "Lock:\tnone\n")
	}

	w.Flush()
}

func optionalCount(n int) int {
	if len(os.Args) <= n {
		return 1
	}
	count, err := strconv.Atoi(os.Args[n])
	if err != nil || count < 1 {
		fatal(fmt.Errorf("bad count %q", os.Args[n]))
	}
	return count
}
