package responses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"quizdown/internal/diag"
	"quizdown/internal/grading"
	"quizdown/internal/question"
	"quizdown/internal/spec"
)

// File is the on-disk shape of a responses file.
type File struct {
	Responses  map[string]any     `json:"responses" yaml:"responses"`
	SelfGrades map[string]float64 `json:"self_grades" yaml:"self_grades"`
}

// SelfGrade is one coefficient to apply after submission.
type SelfGrade struct {
	QuestionID  string
	Coefficient float64
}

// Set is a decoded responses file.
type Set struct {
	Responses  map[string]grading.Response
	SelfGrades []SelfGrade
}

// Load reads a YAML or JSON responses file and decodes each answer by its
// question's kind.
func Load(path string, specs []question.Spec, sink diag.Sink) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read responses: %w", err)
	}
	file, err := parseFile(data, path)
	if err != nil {
		return Set{}, err
	}
	return Resolve(file, specs, diag.Location{Source: path}, sink), nil
}

// Parse decodes responses from data. JSON is detected by a leading brace.
func Parse(data []byte, specs []question.Spec, sink diag.Sink) (Set, error) {
	file, err := parseFile(data, "")
	if err != nil {
		return Set{}, err
	}
	return Resolve(file, specs, diag.Location{Source: "responses"}, sink), nil
}

// Resolve decodes raw answers. Unknown ids and shape mismatches are warned
// about and left out, so those questions grade as unanswered.
func Resolve(file File, specs []question.Spec, loc diag.Location, sink diag.Sink) Set {
	set := Set{Responses: map[string]grading.Response{}}
	for _, id := range sortedKeys(file.Responses) {
		target, ok := question.Find(specs, id)
		if !ok {
			diag.Warnf(sink, loc, "response for unknown question %q ignored", id)
			continue
		}
		response, notes, err := DecodeWithNotes(target, file.Responses[id])
		if err != nil {
			diag.Warnf(sink, loc, "response for %s ignored: %v", id, err)
			continue
		}
		for _, note := range notes {
			diag.Warnf(sink, loc, "response for %s: %s", id, note)
		}
		if response != nil {
			set.Responses[id] = response
		}
	}
	for _, id := range sortedKeys(file.SelfGrades) {
		if _, ok := question.Find(specs, id); !ok {
			diag.Warnf(sink, loc, "self grade for unknown question %q ignored", id)
			continue
		}
		set.SelfGrades = append(set.SelfGrades, SelfGrade{QuestionID: id, Coefficient: file.SelfGrades[id]})
	}
	return set
}

func parseFile(data []byte, path string) (File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || (ext == "" && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))) {
		return parseJSONFile(data)
	}
	return parseYAMLFile(data)
}

func parseJSONFile(data []byte) (File, error) {
	var file File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	return file, nil
}

func parseYAMLFile(data []byte) (File, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	for id, value := range file.Responses {
		file.Responses[id] = spec.NormalizeTree(value)
	}
	return file, nil
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
