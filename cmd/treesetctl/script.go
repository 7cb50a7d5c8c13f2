// script
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pacs008/actor/treeset"
)

// runScript executes one command per line of r against client
// and writes one result line per command to w. Blank lines and
// lines starting with # are skipped.
//
//	insert 5
//	contains 5
//	remove 5
//	gc
//	stats
func runScript(ctx context.Context, client *treeset.Client, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := runCommand(ctx, client, strings.Fields(line))
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		fmt.Fprintf(w, "%s: %s\n", line, result)
	}
	return scanner.Err()
}

func runCommand(ctx context.Context, client *treeset.Client, fields []string) (string, error) {
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "gc":
		client.GC()
		return "triggered", nil
	case "stats":
		stats, err := client.Stats()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("cycles=%d collecting=%v pending=%d", stats.GCCycles, stats.Collecting, stats.Pending), nil
	}

	if len(fields) != 2 {
		return "", fmt.Errorf("%v takes one integer argument", cmd)
	}
	elem, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", fmt.Errorf("bad element %q: %w", fields[1], err)
	}

	switch cmd {
	case "insert":
		if err := client.Insert(ctx, elem); err != nil {
			return "", err
		}
		return "ok", nil
	case "remove":
		if err := client.Remove(ctx, elem); err != nil {
			return "", err
		}
		return "ok", nil
	case "contains":
		ok, err := client.Contains(ctx, elem)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ok), nil
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}
