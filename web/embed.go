// Package web holds the browser assets served under /static.
package web

import "embed"

// FS holds static/, which carries the live refresh client.
//
//go:embed static/*
var FS embed.FS
