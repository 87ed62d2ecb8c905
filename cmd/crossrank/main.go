// Command crossrank retrieves the documents most similar to the query
// documents in every index and ranks them across indices.
//
//	crossrank -i 'news/*.arff,blogs.arff' -k 10 -m L2 sport/doc-17
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
