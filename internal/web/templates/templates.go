// Package templates holds the HTML components of the web UI.
//
// Components are written in the .templ files; the matching _templ.go files
// are generated from them and must not be edited by hand.
package templates

//go:generate templ generate
