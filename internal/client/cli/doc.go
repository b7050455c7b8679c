// Package cli implements the interactive dashctl shell.
//
// The shell is a read-eval-print loop over the dashboard resources. Reads
// go through the query cache, so revisiting a screen is instant and
// mutations update what the next render shows without a refetch where the
// backend response allows it.
package cli
