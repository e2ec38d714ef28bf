// Package display renders journal entries in the configured display format.
package display
