package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// Request describes one conversion.
type Request struct {
	InputPath  string `validate:"required"`
	Format     string `validate:"required"`
	OutputPath string `validate:"required"`
}

const invalidNameChars = `<>:"/\|?*`

var requestValidator = validator.New()

// NewRequest builds a Request from picker input. With no outDir and no
// outName the output is derived from the input; otherwise the name is
// sanitized and placed in outDir (the input's folder when empty).
func NewRequest(inputPath, format, outDir, outName string) Request {
	inputPath = strings.TrimSpace(inputPath)
	format = NormalizeFormat(format)
	outDir = strings.TrimSpace(outDir)
	outName = strings.TrimSpace(outName)

	req := Request{InputPath: inputPath, Format: format}
	if inputPath == "" || format == "" {
		return req
	}
	if outDir == "" && outName == "" {
		req.OutputPath = DefaultOutputPath(inputPath, format)
		return req
	}
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	if outName == "" {
		outName = stem(inputPath)
	}
	req.OutputPath = OutputPathIn(outDir, outName, format)
	return req
}

// DefaultOutputPath swaps the input's extension for format, keeping the
// directory: "videos/clip.mov" + "mp4" -> "videos/clip.mp4".
func DefaultOutputPath(input, format string) string {
	return filepath.Join(filepath.Dir(input), stem(input)+"."+NormalizeFormat(format))
}

// OutputPathIn places a caller-chosen name in dir. The name is sanitized and
// gets ".<format>" appended unless it already ends with it.
func OutputPathIn(dir, name, format string) string {
	format = NormalizeFormat(format)
	name = SanitizeFileName(name)
	if !strings.EqualFold(filepath.Ext(name), "."+format) {
		name += "." + format
	}
	return filepath.Join(dir, name)
}

// SanitizeFileName replaces characters that are not allowed in file names
// with '_'. Path separators count as invalid, so the result is always a
// single path element.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(invalidNameChars, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "_"
	}
	return out
}

// HasInvalidNameChars reports whether name contains a character that
// SanitizeFileName would replace.
func HasInvalidNameChars(name string) bool {
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(invalidNameChars, r) {
			return true
		}
	}
	return false
}

// Validate checks a request before it is handed to a Converter.
func Validate(req Request, policy FormatPolicy) error {
	if err := requestValidator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: fieldName(verrs[0].Field()), Reason: "is required"}
		}
		return &ValidationError{Reason: err.Error()}
	}

	info, err := os.Stat(req.InputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ValidationError{Field: "input", Reason: fmt.Sprintf("%s does not exist", req.InputPath)}
		}
		return &ValidationError{Field: "input", Reason: fmt.Sprintf("stat %s: %v", req.InputPath, err)}
	}
	if !info.Mode().IsRegular() {
		return &ValidationError{Field: "input", Reason: fmt.Sprintf("%s is not a regular file", req.InputPath)}
	}
	if err := checkReadable(req.InputPath); err != nil {
		return &ValidationError{Field: "input", Reason: fmt.Sprintf("%s is not readable: %v", req.InputPath, err)}
	}

	if !policy.Permits(req.Format) {
		return &ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported format %q", req.Format)}
	}

	// A derived output keeps the input's stem, whatever characters the
	// filesystem allowed in it; only a new name has to be clean.
	if base := filepath.Base(req.OutputPath); stem(base) != stem(req.InputPath) && HasInvalidNameChars(base) {
		return &ValidationError{Field: "output", Reason: fmt.Sprintf("invalid characters in %q", base)}
	}
	if samePath(req.InputPath, req.OutputPath) {
		return &ValidationError{Field: "output", Reason: "output would overwrite the input file"}
	}
	return nil
}

func fieldName(structField string) string {
	switch structField {
	case "InputPath":
		return "input"
	case "OutputPath":
		return "output"
	case "Format":
		return "format"
	default:
		return strings.ToLower(structField)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
