package ui

import (
	"encoding/json"
	"fmt"
	"strings"
)

func ShowHeader(title string) {
	fmt.Printf(" %s\n", strings.Repeat("─", len(title)+2))
	fmt.Printf(" %s\n", title)
	fmt.Printf(" %s\n", strings.Repeat("─", len(title)+2))
}

func ShowSuccess(format string, args ...interface{}) {
	fmt.Printf(" ✓ %s\n", fmt.Sprintf(format, args...))
}

func ShowError(msg string, err error) {
	if err != nil {
		fmt.Printf(" ✗ %s: %v\n", msg, err)
	} else {
		fmt.Printf(" ✗ %s\n", msg)
	}
}

func ShowWarning(format string, args ...interface{}) {
	fmt.Printf(" ! %s\n", fmt.Sprintf(format, args...))
}

func ShowInfo(format string, args ...interface{}) {
	fmt.Printf(" ℹ %s\n", fmt.Sprintf(format, args...))
}

func ShowKeyValue(key string, value interface{}) {
	fmt.Printf("  %-18s %v\n", key, value)
}

func ShowJSON(v interface{}) {
	b, err := json.MarshalIndent(v, " ", "  ")
	if err != nil {
		ShowError("kan resultaat niet weergeven", err)
		return
	}
	fmt.Printf(" %s\n", b)
}
