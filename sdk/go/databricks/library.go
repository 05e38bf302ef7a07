// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package databricks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrUnrecognizedLibraryKind is returned when a serialized library
// descriptor has none of the known discriminant keys.
var ErrUnrecognizedLibraryKind = errors.New("library not recognized")

// UnsupportedVariantError is returned when encoding a Library whose
// dynamic type is not one of the library types defined in this
// package.
type UnsupportedVariantError struct {
	Type reflect.Type
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("cannot encode library of unsupported type %s", e.Type)
}

// A Library describes an artifact or package to install on a
// cluster. It is one of JarLibrary, EggLibrary, WheelLibrary,
// MavenLibrary, PythonPyPiLibrary, or RCranLibrary.
//
// Library values are immutable and compare by value (see
// LibraryEqual). Pointers to these types also satisfy Library, and
// EncodeLibrary and LibraryEqual treat them like the values they point
// to. DecodeLibrary always returns values.
type Library interface {
	fmt.Stringer
	// Equal reports whether other describes the same library.
	Equal(other Library) bool
	isLibrary()
}

// JarLibrary is a JAR artifact, e.g., "dbfs:/mnt/libs/x.jar".
type JarLibrary struct {
	Jar string `json:"jar"`
}

// EggLibrary is a Python egg artifact.
type EggLibrary struct {
	Egg string `json:"egg"`
}

// WheelLibrary is a Python wheel artifact.
type WheelLibrary struct {
	Wheel string `json:"whl"`
}

// MavenLibrary is a Maven artifact identified by its coordinates.
type MavenLibrary struct {
	Maven MavenLibrarySpec `json:"maven"`
}

type MavenLibrarySpec struct {
	// "groupId:artifactId:version"
	Coordinates string `json:"coordinates"`
	// Repository to use instead of Maven Central and Spark
	// Packages.
	Repo string `json:"repo,omitempty"`
	// Dependencies to leave out, "groupId:artifactId".
	Exclusions []string `json:"exclusions,omitempty"`
}

// PythonPyPiLibrary is a package installed from PyPI (or the given
// index URL).
type PythonPyPiLibrary struct {
	PyPi PythonPyPiLibrarySpec `json:"pypi"`
}

type PythonPyPiLibrarySpec struct {
	Package string `json:"package"`
	Repo    string `json:"repo,omitempty"`
}

// RCranLibrary is a package installed from CRAN (or the given
// mirror).
type RCranLibrary struct {
	Cran RCranLibrarySpec `json:"cran"`
}

type RCranLibrarySpec struct {
	Package string `json:"package"`
	Repo    string `json:"repo,omitempty"`
}

func (JarLibrary) isLibrary()        {}
func (EggLibrary) isLibrary()        {}
func (WheelLibrary) isLibrary()      {}
func (MavenLibrary) isLibrary()      {}
func (PythonPyPiLibrary) isLibrary() {}
func (RCranLibrary) isLibrary()      {}

func (l JarLibrary) String() string   { return "jar:" + l.Jar }
func (l EggLibrary) String() string   { return "egg:" + l.Egg }
func (l WheelLibrary) String() string { return "whl:" + l.Wheel }

func (l MavenLibrary) String() string {
	s := "maven:" + l.Maven.Coordinates
	if l.Maven.Repo != "" {
		s += "@" + l.Maven.Repo
	}
	return s
}

func (l PythonPyPiLibrary) String() string {
	s := "pypi:" + l.PyPi.Package
	if l.PyPi.Repo != "" {
		s += "@" + l.PyPi.Repo
	}
	return s
}

func (l RCranLibrary) String() string {
	s := "cran:" + l.Cran.Package
	if l.Cran.Repo != "" {
		s += "@" + l.Cran.Repo
	}
	return s
}

func (l JarLibrary) Equal(other Library) bool {
	o, ok := other.(JarLibrary)
	return ok && o == l
}

func (l EggLibrary) Equal(other Library) bool {
	o, ok := other.(EggLibrary)
	return ok && o == l
}

func (l WheelLibrary) Equal(other Library) bool {
	o, ok := other.(WheelLibrary)
	return ok && o == l
}

// Equal compares coordinates, repository, and the set of exclusions
// (order does not matter).
func (l MavenLibrary) Equal(other Library) bool {
	o, ok := other.(MavenLibrary)
	return ok &&
		o.Maven.Coordinates == l.Maven.Coordinates &&
		o.Maven.Repo == l.Maven.Repo &&
		sameStringSet(o.Maven.Exclusions, l.Maven.Exclusions)
}

func (l PythonPyPiLibrary) Equal(other Library) bool {
	o, ok := other.(PythonPyPiLibrary)
	return ok && o == l
}

func (l RCranLibrary) Equal(other Library) bool {
	o, ok := other.(RCranLibrary)
	return ok && o == l
}

// LibraryEqual reports whether a and b describe the same library. Two
// nil libraries are equal, and a pointer to a library type equals the
// value it points to.
func LibraryEqual(a, b Library) bool {
	a, b = libraryValue(a), libraryValue(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// libraryKinds lists the discriminant keys in the order they are
// tried when decoding. If a descriptor has more than one of these
// keys, the first one listed here wins. Each decode func receives
// only the value stored under its key.
var libraryKinds = []struct {
	key    string
	decode func(json.RawMessage) (Library, error)
}{
	{"jar", func(data json.RawMessage) (Library, error) {
		var l JarLibrary
		err := json.Unmarshal(data, &l.Jar)
		return l, err
	}},
	{"egg", func(data json.RawMessage) (Library, error) {
		var l EggLibrary
		err := json.Unmarshal(data, &l.Egg)
		return l, err
	}},
	{"whl", func(data json.RawMessage) (Library, error) {
		var l WheelLibrary
		err := json.Unmarshal(data, &l.Wheel)
		return l, err
	}},
	{"maven", func(data json.RawMessage) (Library, error) {
		var l MavenLibrary
		err := json.Unmarshal(data, &l.Maven)
		return l, err
	}},
	{"pypi", func(data json.RawMessage) (Library, error) {
		var l PythonPyPiLibrary
		err := json.Unmarshal(data, &l.PyPi)
		return l, err
	}},
	{"cran", func(data json.RawMessage) (Library, error) {
		var l RCranLibrary
		err := json.Unmarshal(data, &l.Cran)
		return l, err
	}},
}

// DecodeLibrary decodes a JSON library descriptor such as
// {"jar":"dbfs:/x.jar"} or {"pypi":{"package":"requests"}}.
//
// JSON null decodes to a nil Library. Discriminant keys are matched
// exactly ("JAR" is not "jar"), and keys other than the matched
// discriminant are ignored.
func DecodeLibrary(data []byte) (Library, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var keys map[string]json.RawMessage
	err := json.Unmarshal(data, &keys)
	if err != nil {
		return nil, err
	}
	for _, kind := range libraryKinds {
		if payload, ok := keys[kind.key]; ok {
			return kind.decode(payload)
		}
	}
	return nil, ErrUnrecognizedLibraryKind
}

// libraryValue returns the value a pointer to one of the library
// types points to, so *JarLibrary encodes and compares like
// JarLibrary. A nil pointer yields a nil Library. Other values are
// returned unchanged.
func libraryValue(lib Library) Library {
	switch l := lib.(type) {
	case *JarLibrary:
		if l != nil {
			return *l
		}
	case *EggLibrary:
		if l != nil {
			return *l
		}
	case *WheelLibrary:
		if l != nil {
			return *l
		}
	case *MavenLibrary:
		if l != nil {
			return *l
		}
	case *PythonPyPiLibrary:
		if l != nil {
			return *l
		}
	case *RCranLibrary:
		if l != nil {
			return *l
		}
	default:
		return lib
	}
	return nil
}

// EncodeLibrary returns the JSON descriptor for lib. A nil Library
// encodes as JSON null. Pointers to the library types are accepted.
func EncodeLibrary(lib Library) ([]byte, error) {
	switch lib := libraryValue(lib).(type) {
	case nil:
		return []byte("null"), nil
	case JarLibrary, EggLibrary, WheelLibrary, MavenLibrary, PythonPyPiLibrary, RCranLibrary:
		return json.Marshal(lib)
	default:
		return nil, &UnsupportedVariantError{Type: reflect.TypeOf(lib)}
	}
}

// Libraries is a list of Library values that marshals to and from a
// JSON array of library descriptors.
type Libraries []Library

// MarshalJSON implements json.Marshaler.
func (libs Libraries) MarshalJSON() ([]byte, error) {
	if libs == nil {
		return []byte("null"), nil
	}
	buf := bytes.NewBufferString("[")
	for i, lib := range libs {
		if i > 0 {
			buf.WriteByte(',')
		}
		j, err := EncodeLibrary(lib)
		if err != nil {
			return nil, err
		}
		buf.Write(j)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (libs *Libraries) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	if raw == nil {
		*libs = nil
		return nil
	}
	decoded := make(Libraries, 0, len(raw))
	for _, j := range raw {
		lib, err := DecodeLibrary(j)
		if err != nil {
			return err
		}
		decoded = append(decoded, lib)
	}
	*libs = decoded
	return nil
}

// Contains reports whether libs has an entry equal to lib.
func (libs Libraries) Contains(lib Library) bool {
	for _, l := range libs {
		if LibraryEqual(l, lib) {
			return true
		}
	}
	return false
}
