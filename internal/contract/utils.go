package contract

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/lootlens/lootlens/schema"
)

// Color variables for console output, one per price tier.
var (
	OrangeColor = color.New(color.FgHiYellow, color.Bold) // most valuable drops stand out
	PurpleColor = color.New(color.FgMagenta, color.Bold)
	BlueColor   = color.New(color.FgBlue)
	GreenColor  = color.New(color.FgGreen)
	WhiteColor  = color.New(color.FgWhite)
)

// GetPlainLabel returns the tier label used for CSV, JSON and plain tables.
func GetPlainLabel(r schema.Rarity) string {
	return string(r.OrUnknown())
}

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(r schema.Rarity) string {
	text := GetPlainLabel(r)

	switch schema.Rarity(text) {
	case schema.RarityOrange:
		return OrangeColor.Sprint(text)
	case schema.RarityPurple:
		return PurpleColor.Sprint(text)
	case schema.RarityBlue:
		return BlueColor.Sprint(text)
	case schema.RarityGreen:
		return GreenColor.Sprint(text)
	default:
		return WhiteColor.Sprint(text)
	}
}

// SelectOutputFile returns the file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs a progress line for long-running commands.
func LogInfo(format string, args ...any) {
	log.Printf(format, args...)
}

// GetDBFilePath returns the path to the SQLite DB file for the item store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".lootlens.db"
	}
	return filepath.Join(homeDir, ".lootlens.db")
}

// ValidateUserName rejects user names that would escape the log directory.
func ValidateUserName(user string) error {
	if user == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if user == "." || user == ".." || strings.ContainsAny(user, `/\`) {
		return fmt.Errorf("invalid user name %q", user)
	}
	return nil
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so at least one character of content remains.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// Abbreviate formats a number compactly, such as 1.23M or 950.
func Abbreviate(n int64, precision int) string {
	units := []struct {
		size   float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
	abs := math.Abs(float64(n))
	for _, u := range units {
		if abs >= u.size {
			return fmt.Sprintf("%.*f%s", precision, float64(n)/u.size, u.suffix)
		}
	}
	return strconv.FormatInt(n, 10)
}
