// Command fake_runtime mimics the subset of the ollama CLI used by the manager.
// Behaviour is selected by the model name:
//
//	pull bad*      exits 1 with a message on stderr
//	pull slowpull  sleeps for an hour
//	run silent     prints nothing and sleeps
//	run slowdrip   prints a line every 100ms forever
//	run crash      writes to stderr and exits 2
//	run stubborn   ignores SIGTERM and sleeps
//	run multi      prints three lines, with trailing whitespace
//	run echo       prints the prompt
//	run <other>    prints "hi"
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fake_runtime pull|run|list ...")
		os.Exit(64)
	}
	switch os.Args[1] {
	case "list":
		fmt.Println("NAME              ID              SIZE      MODIFIED")
		fmt.Println("phi3:latest       4f2222927938    2.2 GB    3 weeks ago")
		fmt.Println("llama3:8b         365c0bd3c000    4.7 GB    2 days ago")
	case "pull":
		model := arg(2)
		switch {
		case strings.HasPrefix(model, "bad"):
			fmt.Fprintln(os.Stderr, "Error: pull model manifest: file does not exist")
			os.Exit(1)
		case model == "slowpull":
			time.Sleep(time.Hour)
		}
		fmt.Fprintln(os.Stderr, "pulling manifest")
		fmt.Println("success")
	case "run":
		run(arg(2), arg(3))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(64)
	}
}

func run(model, prompt string) {
	switch model {
	case "silent":
		time.Sleep(time.Hour)
	case "slowdrip":
		for i := 0; ; i++ {
			fmt.Printf("tick %d\n", i)
			time.Sleep(100 * time.Millisecond)
		}
	case "crash":
		fmt.Println("partial")
		fmt.Fprintln(os.Stderr, "error: model crashed")
		os.Exit(2)
	case "stubborn":
		signal.Ignore(syscall.SIGTERM)
		time.Sleep(time.Hour)
	case "multi":
		fmt.Print("line one  \n\t\nline two\r\n")
	case "echo":
		fmt.Println(prompt)
	default:
		fmt.Println("hi")
	}
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}
