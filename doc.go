// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

/*
Package dnharchive extracts Touhou Danmakufu archives into a directory tree.
Two container layouts are supported:

  - 0.12m ("PACK_FILE\0"): a flat entry table with 8-bit names; each payload
    may carry its own "COMPRESS_ZIP\0" marker followed by a zlib stream;
  - ph3 ("ArchiveFile"): a header block, optionally zlib-compressed as a
    whole, listing UTF-16 directory and file names, followed by a contents
    region. Entry offsets are absolute positions in the archive file.

Extraction is synchronous and streaming: one entry is copied at a time through
a fixed 64 KiB buffer, and at most one output file is open.

# Extracting

Extract an archive next to itself, into "<stem>_extracted" (or
"<stem>_extracted_N" when earlier output exists):

	res, err := dnharchive.ExtractFile("th_dnh.dat", dnharchive.ExtractOptions{})
	if err != nil {
	    return err
	}
	if res.Kind == dnharchive.KindUnknown {
	    // not an archive, nothing written
	}

Entry names are sanitized for the filesystem, and collisions inside one
directory get "_2", "_3", ... suffixes. Anomalies such as renamed, duplicate
or size-mismatched entries never abort a run; they are reported as warnings:

	res, err := dnharchive.ExtractFile("th_dnh.dat", dnharchive.ExtractOptions{
	    OnWarning: func(w dnharchive.Warning) {
	        fmt.Println(w.Kind, w.Message)
	    },
	})

Without OnWarning, warnings are logged with github.com/apex/log.

Select entries with github.com/woozymasta/pathrules rules matched against
"dir/name" paths:

	res, err := dnharchive.ExtractFile("th_dnh.dat", dnharchive.ExtractOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionExclude, Pattern: "*.ogg"},
	    },
	})

Write into a caller-provided tree with Extract:

	out, err := dnharchive.OpenOutput("th_dnh.dat", dnharchive.OutputOptions{Dir: "out"})
	if err != nil {
	    return err
	}
	res, err := dnharchive.Extract(f, out, dnharchive.ExtractOptions{})

# Listing

	entries, kind, err := dnharchive.ListEntries("th_dnh.dat")
*/
package dnharchive
