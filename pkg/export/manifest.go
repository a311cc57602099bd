package export

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// DigestAlgorithm identifies the hash used for input and view digests.
const DigestAlgorithm = "SHA-256"

// ViewDigest fingerprints an ordered record view.
type ViewDigest struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Digest string `json:"digest"`
}

// OutputFile records a file written by a stage.
type OutputFile struct {
	Stage string `json:"stage"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// RunManifest describes one pipeline run. Re-running over the same input and
// configuration reproduces every digest; RunID and timestamps differ.
type RunManifest struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"version"`
	Algorithm  string    `json:"algorithm"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	InputPath   string `json:"input_path"`
	InputDigest string `json:"input_digest,omitempty"`
	InputRows   int    `json:"input_rows"`

	Views   []ViewDigest `json:"views"`
	Outputs []OutputFile `json:"outputs"`

	// Parameters holds the configuration values that shape the outputs.
	Parameters map[string]string `json:"parameters,omitempty"`

	// ParametersDigest hashes Parameters in key order.
	ParametersDigest string `json:"parameters_digest"`
}

// ManifestBuilder collects run facts as stages complete.
type ManifestBuilder struct {
	manifest *RunManifest
}

// NewManifestBuilder starts a manifest with a fresh run id.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		manifest: &RunManifest{
			RunID:      uuid.NewString(),
			Algorithm:  DigestAlgorithm,
			StartedAt:  time.Now().UTC(),
			Parameters: make(map[string]string),
		},
	}
}

// RunID returns the identifier of the run being recorded.
func (mb *ManifestBuilder) RunID() string {
	return mb.manifest.RunID
}

// WithVersion sets the tool version.
func (mb *ManifestBuilder) WithVersion(version string) *ManifestBuilder {
	mb.manifest.Version = version
	return mb
}

// WithInput records the source file, its digest and row count.
func (mb *ManifestBuilder) WithInput(path string, rows int) *ManifestBuilder {
	mb.manifest.InputPath = path
	mb.manifest.InputRows = rows
	if digest, err := DigestFile(path); err == nil {
		mb.manifest.InputDigest = digest
	}
	return mb
}

// WithParameter adds a configuration parameter.
func (mb *ManifestBuilder) WithParameter(key, value string) *ManifestBuilder {
	mb.manifest.Parameters[key] = value
	return mb
}

// WithView fingerprints an ordered record view.
func (mb *ManifestBuilder) WithView(name string, records []building.Record) *ManifestBuilder {
	mb.manifest.Views = append(mb.manifest.Views, ViewDigest{
		Name:   name,
		Rows:   len(records),
		Digest: DigestRecords(records),
	})
	return mb
}

// WithOutput records a written file and its size.
func (mb *ManifestBuilder) WithOutput(stage, path string) *ManifestBuilder {
	out := OutputFile{Stage: stage, Path: path}
	if info, err := os.Stat(path); err == nil {
		out.Bytes = info.Size()
	}
	mb.manifest.Outputs = append(mb.manifest.Outputs, out)
	return mb
}

// Build stamps the finish time and the parameter digest.
func (mb *ManifestBuilder) Build() *RunManifest {
	mb.manifest.FinishedAt = time.Now().UTC()
	mb.manifest.ParametersDigest = digestParameters(mb.manifest.Parameters)
	return mb.manifest
}

// View returns the digest recorded under name.
func (m *RunManifest) View(name string) (ViewDigest, bool) {
	for _, v := range m.Views {
		if v.Name == name {
			return v, true
		}
	}
	return ViewDigest{}, false
}

// SameResults reports whether two runs produced identical views from
// identical parameters.
func (m *RunManifest) SameResults(other *RunManifest) bool {
	if m.ParametersDigest != other.ParametersDigest || len(m.Views) != len(other.Views) {
		return false
	}
	for i := range m.Views {
		if m.Views[i] != other.Views[i] {
			return false
		}
	}
	return true
}

// WriteTo writes the manifest as indented JSON.
func (m *RunManifest) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}

// ExportManifestToFile writes the manifest to path.
func ExportManifestToFile(path string, m *RunManifest) error {
	f, err := os.Create(path)
	if err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to create manifest").
			WithContext(serrors.ContextPath, path)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to write manifest").
			WithContext(serrors.ContextPath, path)
	}
	if err := f.Close(); err != nil {
		return serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to close manifest").
			WithContext(serrors.ContextPath, path)
	}
	return nil
}

// ReadManifest loads a manifest written by ExportManifestToFile.
func ReadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DigestRecords hashes records in order over a canonical line per record.
// The source Row is excluded so equal data in equal order digests equally.
func DigestRecords(records []building.Record) string {
	h := sha256.New()
	var sb strings.Builder
	for _, r := range records {
		sb.Reset()
		sb.WriteString(r.Name)
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(r.Height, 'g', -1, 64))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(r.CompletionYear))
		sb.WriteByte('|')
		sb.WriteString(r.City)
		sb.WriteByte('|')
		sb.WriteString(r.Country)
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(r.Lat, 'g', -1, 64))
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(r.Lon, 'g', -1, 64))
		sb.WriteByte('\n')
		h.Write([]byte(sb.String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DigestFile hashes the file contents at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func digestParameters(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
		sb.WriteByte('|')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ShortDigest returns the first 8 characters of a digest for display.
func ShortDigest(digest string) string {
	if len(digest) >= 8 {
		return digest[:8]
	}
	return digest
}
