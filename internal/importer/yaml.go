package importer

import (
	"strings"

	"github.com/siglab/publication-service/internal/domain"
)

// yamlState tracks which nested collection the parser is currently filling.
type yamlState int

const (
	yamlStateNone yamlState = iota
	yamlStateAuthors
	yamlStatePublicationDate
	yamlStateTitle
)

// ParseYamlWorks parses the simplified YAML export shape: a top-level
// `works:` key whose items carry `authors:` lists, a `publicationDate:`
// object, a `title:` object with a `value:` (possibly wrapped over
// continuation lines), and flat scalar keys.
//
// This is a line-oriented state machine over fixed indentation levels
// (2/4/6/8 spaces), not a general YAML parser; it deliberately handles only
// the one shape the exports use. Empty input yields an empty slice; input
// without a `works:` key yields a domain.FormatError.
func ParseYamlWorks(data []byte) ([]YamlWork, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var (
		works      []YamlWork
		inWork     bool
		fields     map[string]string
		authors    []string
		pubDate    map[string]string
		titleLine  []string
		state      yamlState
		collecting bool
		sawWorks   bool
	)

	flush := func() {
		if !inWork {
			return
		}
		work := YamlWork{
			Authors:      authors,
			Year:         pubDate["year"],
			Type:         fields["type"],
			JournalTitle: fields["journalTitle"],
			Venue:        fields["venue"],
		}
		if len(titleLine) > 0 {
			work.Title = strings.TrimSpace(strings.Join(titleLine, " "))
		} else {
			work.Title = fields["title"]
		}
		works = append(works, work)
	}

	for _, rawLine := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(rawLine)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := len(rawLine) - len(strings.TrimLeft(rawLine, " "))

		switch {
		case trimmed == "works:":
			sawWorks = true

		case indent == 2 && strings.HasPrefix(trimmed, "- "):
			flush()
			inWork = true
			fields = map[string]string{}
			authors = nil
			pubDate = map[string]string{}
			titleLine = nil
			state = yamlStateNone
			collecting = false

			// A key/value pair may share the dash line.
			if content := strings.TrimSpace(trimmed[2:]); strings.Contains(content, ":") {
				key, value, _ := strings.Cut(content, ":")
				key = strings.TrimSpace(key)
				value = yamlScalar(value)
				if key == "authors" {
					state = yamlStateAuthors
				} else {
					fields[key] = value
				}
			}

		case indent == 4 && strings.Contains(trimmed, ":") && inWork:
			key, value, _ := strings.Cut(trimmed, ":")
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)

			switch {
			case key == "authors":
				state = yamlStateAuthors
				authors = nil
			case key == "publicationDate":
				state = yamlStatePublicationDate
				pubDate = map[string]string{}
			case key == "title":
				state = yamlStateTitle
				titleLine = nil
				collecting = false
			case state == yamlStatePublicationDate:
				pubDate[key] = yamlScalar(value)
			default:
				fields[key] = yamlScalar(value)
				state = yamlStateNone
			}

		case indent == 6 && inWork:
			switch {
			case state == yamlStateAuthors && strings.HasPrefix(trimmed, "- "):
				if name := strings.TrimSpace(trimmed[2:]); name != "" {
					authors = append(authors, name)
				}
			case state == yamlStateTitle && strings.HasPrefix(trimmed, "value:"):
				titleLine = append(titleLine, yamlScalar(strings.TrimPrefix(trimmed, "value:")))
				collecting = true
			case state == yamlStatePublicationDate && strings.Contains(trimmed, ":"):
				key, value, _ := strings.Cut(trimmed, ":")
				pubDate[strings.TrimSpace(key)] = yamlScalar(value)
			}

		case indent == 8 && collecting:
			// Continuation line of a wrapped title value.
			titleLine = append(titleLine, trimmed)
		}
	}
	flush()

	if !sawWorks {
		return nil, domain.NewFormatError("yaml", "missing top-level works key")
	}
	return works, nil
}

// yamlScalar trims a scalar value and removes quote characters. A bare
// null marker maps to the empty string; the word inside a longer value is
// kept untouched.
func yamlScalar(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, `"`, "")
	value = strings.TrimSpace(value)
	if value == "null" {
		return ""
	}
	return value
}
