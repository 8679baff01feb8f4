// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

// Command dnh-extract unpacks a Danmakufu 0.12m or ph3 archive.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/dustin/go-humanize"
	"github.com/woozymasta/pathrules"

	dnharchive "github.com/Lymia/th-dnh-archiver"
)

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <archive to extract>\n\n", name)
	fmt.Fprintf(os.Stderr, "Extracts into <archive stem>_extracted next to the archive.\n\n")
	flag.PrintDefaults()
}

// caseFoldingDefault reports whether the host's usual filesystems fold case.
func caseFoldingDefault() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

func main() {
	var (
		outDir  = flag.String("o", "", "parent directory for the output root (default: archive directory)")
		list    = flag.Bool("list", false, "list entries without extracting")
		verbose = flag.Bool("v", false, "log every extracted entry")
		fold    = flag.Bool("fold-case", caseFoldingDefault(), "treat output names differing only in case as collisions")
		rules   []pathrules.Rule
		include bool
	)
	flag.Func("include", "extract only entries matching `pattern` (repeatable)", func(s string) error {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: s})
		include = true
		return nil
	})
	flag.Func("exclude", "skip entries matching `pattern` (repeatable)", func(s string) error {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: s})
		return nil
	})
	flag.Usage = usage
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	info, err := os.Stat(path)
	switch {
	case err != nil:
		log.WithError(err).Errorf("no such file '%s'", path)
		os.Exit(1)
	case !info.Mode().IsRegular():
		log.Errorf("'%s' is not a regular file", path)
		os.Exit(1)
	}

	if *list {
		if err := listEntries(path); err != nil {
			log.WithError(err).Error("list failed")
			os.Exit(1)
		}
		return
	}

	opts := dnharchive.ExtractOptions{
		Rules:  rules,
		Output: dnharchive.OutputOptions{Dir: *outDir, FoldCase: *fold},
		OnEntryDone: func(entry dnharchive.EntryInfo, written int64, outputPath string) {
			log.WithField("size", humanize.Bytes(uint64(written))).Debugf("%s -> %s", entry.Path(), outputPath)
		},
	}
	if include {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	log.Infof("extracting '%s'", path)
	res, err := dnharchive.ExtractFile(path, opts)
	if err != nil {
		log.WithError(err).Error("extraction failed")
		if res.Root != "" {
			log.Warnf("partial output left in '%s'", res.Root)
		}
		os.Exit(1)
	}

	if res.Kind == dnharchive.KindUnknown {
		log.Warnf("file '%s' is not a Danmakufu 0.12m or ph3 archive", path)
		return
	}

	log.WithFields(log.Fields{
		"format":   res.Kind.String(),
		"warnings": res.Warnings,
		"skipped":  res.Skipped,
	}).Infof("extracted %d files (%s) to '%s' in %s",
		res.Files, humanize.Bytes(uint64(res.Bytes)), res.Root, res.Duration.Round(time.Millisecond))
}

// listEntries prints archive contents one entry per line.
func listEntries(path string) error {
	entries, kind, err := dnharchive.ListEntries(path)
	if errors.Is(err, dnharchive.ErrNotArchive) {
		log.Warnf("file '%s' is not a Danmakufu 0.12m or ph3 archive", path)
		return nil
	}
	if err != nil {
		return err
	}

	var total uint64
	for _, entry := range entries {
		mark := " "
		if entry.Compressed {
			mark = "z"
		}

		fmt.Printf("%s %10s  %s\n", mark, humanize.Bytes(entry.Size), entry.Path())
		total += entry.Size
	}

	log.Infof("%s archive: %d entries, %s", kind, len(entries), humanize.Bytes(total))
	return nil
}
