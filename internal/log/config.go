package log

import (
	"io"
	"os"
	"strings"
)

// Format selects the record encoding
type Format int

const (
	FormatText Format = iota // key=value
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat maps "json" (any case) to FormatJSON and everything else to text
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Config holds logger settings
type Config struct {
	Level  Level
	Format Format

	// Output defaults to stderr so command output stays pipeable
	Output io.Writer

	AddSource bool

	// ServiceName is attached to every record as "service"
	ServiceName string
}

// DefaultConfig logs warnings and above as text to stderr
func DefaultConfig() Config {
	return Config{
		Level:       LevelWarn,
		Format:      FormatText,
		Output:      os.Stderr,
		ServiceName: "biblio",
	}
}
