package asset

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the type of data an asset holds.
type Kind int

const (
	KindImage Kind = iota
	KindSound
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindSound:
		return "sound"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a kind name as written in a manifest. An empty string is
// treated as an image.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "image":
		return KindImage, nil
	case "sound":
		return KindSound, nil
	}
	return 0, fmt.Errorf("unknown asset kind %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Data is a borrowed handle to decoded asset data. The cache owns the data;
// callers must not retain it across a Clear unless the asset is locked.
type Data interface {
	Kind() Kind
}

func isNil(d Data) bool {
	switch v := d.(type) {
	case nil:
		return true
	case *Image:
		return v == nil
	case *Sound:
		return v == nil
	}
	return false
}
