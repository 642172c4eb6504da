// Package common defines data structures and functions that are used by multiple
// application commands, e.g., parse and compare.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp string // Timestamp is the application startup time, used in default file names.
	OutputDir string // OutputDir is the directory where the application will write output files.
	Version   string // Version is the version of the application.
	Debug     bool   // Debug indicates whether debug logging is enabled.
}

// shared flag names
const (
	FlagFormatName = "format"
)

// report format options
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatTxt  = "txt"
	FormatPNG  = "png"
	FormatAll  = "all"
)
