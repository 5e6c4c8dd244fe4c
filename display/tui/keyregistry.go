package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMode identifies the context where a keybinding is active.
type KeyMode string

const (
	// ModeGlobal bindings work on every tab.
	ModeGlobal KeyMode = "global"
	// ModeProcesses bindings only act on the Processes tab.
	ModeProcesses KeyMode = "processes"
	// ModeSettings bindings only act on the Settings tab.
	ModeSettings KeyMode = "settings"
)

// KeyCategory groups keybindings by function.
type KeyCategory string

const (
	CategoryNavigation KeyCategory = "navigation"
	CategoryScroll     KeyCategory = "scroll"
	CategorySystem     KeyCategory = "system"
	CategoryProcess    KeyCategory = "process"
)

// KeyEntry represents a single registered keybinding with metadata.
type KeyEntry struct {
	// Binding is the charmbracelet key binding.
	Binding key.Binding
	// Mode is the context where this binding is active.
	Mode KeyMode
	// Category groups this binding by function.
	Category KeyCategory
}

// KeyRegistry lists every hostpulse keybinding for the keys command and
// conflict checks.
type KeyRegistry struct {
	Entries []KeyEntry
}

// DefaultRegistry returns the registry of the bindings the TUI uses.
func DefaultRegistry() *KeyRegistry {
	return &KeyRegistry{
		Entries: []KeyEntry{
			// Navigation
			{Binding: keys.NextTab, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.PrevTab, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab1, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab2, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab3, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab4, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab5, Mode: ModeGlobal, Category: CategoryNavigation},
			{Binding: keys.Tab6, Mode: ModeGlobal, Category: CategoryNavigation},

			// Scroll
			{Binding: keys.Up, Mode: ModeGlobal, Category: CategoryScroll},
			{Binding: keys.Down, Mode: ModeGlobal, Category: CategoryScroll},
			{Binding: keys.PageUp, Mode: ModeGlobal, Category: CategoryScroll},
			{Binding: keys.PageDown, Mode: ModeGlobal, Category: CategoryScroll},
			{Binding: keys.GoTop, Mode: ModeGlobal, Category: CategoryScroll},
			{Binding: keys.GoBottom, Mode: ModeGlobal, Category: CategoryScroll},

			// System
			{Binding: keys.Help, Mode: ModeGlobal, Category: CategorySystem},
			{Binding: keys.Refresh, Mode: ModeGlobal, Category: CategorySystem},
			{Binding: keys.Quit, Mode: ModeGlobal, Category: CategorySystem},
			{Binding: keys.Apply, Mode: ModeSettings, Category: CategorySystem},

			// Process
			{Binding: keys.Sort, Mode: ModeProcesses, Category: CategoryProcess},
			{Binding: keys.Kill, Mode: ModeProcesses, Category: CategoryProcess},
		},
	}
}

// ByMode returns all entries matching the given mode.
func (r *KeyRegistry) ByMode(mode KeyMode) []KeyEntry {
	var result []KeyEntry
	for _, e := range r.Entries {
		if e.Mode == mode {
			result = append(result, e)
		}
	}
	return result
}

// ByCategory returns all entries matching the given category.
func (r *KeyRegistry) ByCategory(cat KeyCategory) []KeyEntry {
	var result []KeyEntry
	for _, e := range r.Entries {
		if e.Category == cat {
			result = append(result, e)
		}
	}
	return result
}

// HasDuplicateKeys checks for keys bound twice where both bindings can be
// active at once. Global bindings collide with every mode.
// Returns a list of conflicts (empty if none).
func (r *KeyRegistry) HasDuplicateKeys() []string {
	type modeKey struct {
		mode KeyMode
		key  string
	}
	seen := make(map[modeKey]string)
	var conflicts []string

	check := func(mk modeKey, desc string) {
		if existing, ok := seen[mk]; ok {
			conflicts = append(conflicts, fmt.Sprintf(
				"duplicate key %q in mode %s: %s vs %s",
				mk.key, mk.mode, existing, desc,
			))
			return
		}
		seen[mk] = desc
	}

	for _, e := range r.Entries {
		desc := e.Binding.Help().Desc
		for _, k := range e.Binding.Keys() {
			if e.Mode == ModeGlobal {
				for _, m := range []KeyMode{ModeGlobal, ModeProcesses, ModeSettings} {
					check(modeKey{mode: m, key: k}, desc)
				}
				continue
			}
			check(modeKey{mode: e.Mode, key: k}, desc)
		}
	}

	return conflicts
}

// FormatTable returns a formatted table of all keybindings.
func (r *KeyRegistry) FormatTable() string {
	var sb strings.Builder

	modes := []KeyMode{ModeGlobal, ModeProcesses, ModeSettings}
	for _, mode := range modes {
		entries := r.ByMode(mode)
		if len(entries) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(string(mode))))
		sb.WriteString(strings.Repeat("-", 50) + "\n")

		for _, e := range entries {
			keysStr := strings.Join(e.Binding.Keys(), ", ")
			sb.WriteString(fmt.Sprintf("  %-20s  %s\n", keysStr, e.Binding.Help().Desc))
		}
	}

	return sb.String()
}

// FormatJSON returns a JSON-compatible slice of binding descriptions.
func (r *KeyRegistry) FormatJSON() []map[string]string {
	var result []map[string]string
	for _, e := range r.Entries {
		result = append(result, map[string]string{
			"keys":     strings.Join(e.Binding.Keys(), ", "),
			"desc":     e.Binding.Help().Desc,
			"mode":     string(e.Mode),
			"category": string(e.Category),
		})
	}
	return result
}
