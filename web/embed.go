// Package web embeds the static login, signup and to-do pages.
package web

import "embed"

// Static embeds static assets.
//
//go:embed static/*
var Static embed.FS
