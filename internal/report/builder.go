package report

import (
	"fmt"
	"strings"
)

// SizeBound is the maximum size, in bytes, of a single tool report.
const SizeBound = 8 * 1024

const checkpointMarker = "── Verification ──"

// fact is a recorded verification-checkpoint entry.
type fact struct {
	label string
	value string
}

// section is one body segment. A list-like section (items != nil) is what
// the size-bound truncation pass shortens first.
type section struct {
	label  Label
	header string
	body   string
	items  []string
}

func (s section) render() string {
	if s.items == nil {
		return fmt.Sprintf("%s %s", s.label, s.body)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.label, s.header)
	for _, item := range s.items {
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Builder assembles a report body plus its verification checkpoint.
type Builder struct {
	sections []section
	facts    []fact
	err      error
}

// New starts an empty report.
func New() *Builder {
	return &Builder{}
}

// Line appends a single-line section, e.g. Line(LabelNet, "vendor reachable").
func (b *Builder) Line(label Label, text string) *Builder {
	b.sections = append(b.sections, section{label: label, body: text})
	return b
}

// List appends a list-like section: a header line followed by one line per
// item. List-like sections are what the size-bound pass truncates first.
func (b *Builder) List(label Label, header string, items []string) *Builder {
	b.sections = append(b.sections, section{label: label, header: header, items: items})
	return b
}

// Fact records a verification-checkpoint entry whose value is emitted
// verbatim.
func (b *Builder) Fact(label, value string) *Builder {
	b.facts = append(b.facts, fact{label: label, value: value})
	return b
}

// Total records a checkpoint fact after validating that total equals the
// sum of components. A mismatch is a handler bug: Build returns an error
// instead of silently reporting inconsistent numbers.
func (b *Builder) Total(label string, total int64, components ...int64) *Builder {
	var sum int64
	for _, c := range components {
		sum += c
	}
	if sum != total {
		b.err = fmt.Errorf("report: %q total %d does not equal sum of components %d", label, total, sum)
		return b
	}
	return b.Fact(label, fmt.Sprintf("%d", total))
}

// Build renders the report: body sections, then (if any facts were
// recorded) the verification checkpoint. It enforces the 8 KiB size bound,
// truncating the longest list-like section and noting it with an
// [INFO] Truncated line before the checkpoint if the rendered report would
// otherwise exceed it.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	sections := make([]section, len(b.sections))
	copy(sections, b.sections)

	for renderedSize(sections, b.facts, countDropped(b.sections, sections)) > SizeBound {
		idx := longestListSection(sections)
		if idx < 0 || len(sections[idx].items) == 0 {
			break // nothing left to shrink
		}
		sections[idx].items = sections[idx].items[:len(sections[idx].items)-1]
	}
	truncated := countDropped(b.sections, sections) > 0

	var out strings.Builder
	for i, s := range sections {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.render())
	}
	if truncated {
		dropped := countDropped(b.sections, sections)
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(fmt.Sprintf("… +%d more\n%s Truncated", dropped, LabelInfo))
	}

	if len(b.facts) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(checkpointMarker)
		for _, f := range b.facts {
			out.WriteString("\n")
			out.WriteString(fmt.Sprintf("%s: %s", f.label, f.value))
		}
	}

	return out.String(), nil
}

func longestListSection(sections []section) int {
	longest := -1
	longestLen := -1
	for i, s := range sections {
		if s.items == nil {
			continue
		}
		l := len(s.items)
		if l > longestLen {
			longestLen = l
			longest = i
		}
	}
	return longest
}

func countDropped(original, truncated []section) int {
	dropped := 0
	for i := range original {
		dropped += len(original[i].items) - len(truncated[i].items)
	}
	return dropped
}

func renderedSize(sections []section, facts []fact, dropped int) int {
	var out strings.Builder
	for i, s := range sections {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.render())
	}
	if dropped > 0 {
		out.WriteString(fmt.Sprintf("\n… +%d more\n%s Truncated", dropped, LabelInfo))
	}
	if len(facts) > 0 {
		out.WriteString("\n\n")
		out.WriteString(checkpointMarker)
		for _, f := range facts {
			out.WriteString("\n")
			out.WriteString(fmt.Sprintf("%s: %s", f.label, f.value))
		}
	}
	return out.Len()
}
