package chimpmock

import (
	"encoding/json"
	"fmt"
)

const membersField = "members"

// Fixture is the member collection served by the mock. It is built once and
// never written afterwards, so it is safe to share between requests.
type Fixture struct {
	// envelope holds every top level field except members.
	envelope map[string]json.RawMessage
	members  []json.RawMessage
}

// LoadFixture reads and parses the fixture document at path.
func LoadFixture(fs FileSystemOperations, path string) (*Fixture, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	return f, nil
}

// ParseFixture decodes a fixture document. The document must be a JSON object
// with a members array; member records themselves are not inspected.
func ParseFixture(data []byte) (*Fixture, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrFixtureNotAnObject
	}

	raw, ok := doc[membersField]
	if !ok {
		return nil, ErrMissingMembers
	}

	var members []json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingMembers, err)
	}
	if members == nil {
		return nil, ErrMissingMembers
	}

	delete(doc, membersField)

	return &Fixture{
		envelope: doc,
		members:  members,
	}, nil
}

// Len returns the number of members in the fixture.
func (f *Fixture) Len() int {
	return len(f.members)
}

// Page returns the members in [offset, offset+count), clamped to the
// collection. The returned slice shares memory with the fixture and must not be
// modified.
func (f *Fixture) Page(offset, count int) []json.RawMessage {
	if offset < 0 || count <= 0 || offset >= len(f.members) {
		return []json.RawMessage{}
	}

	end := len(f.members)
	if count < end-offset {
		end = offset + count
	}

	return f.members[offset:end:end]
}

// Envelope builds the list response document: every fixture field passed
// through, with members replaced by the requested page.
func (f *Fixture) Envelope(offset, count int) map[string]interface{} {
	out := make(map[string]interface{}, len(f.envelope)+1)
	for k, v := range f.envelope {
		out[k] = v
	}
	out[membersField] = f.Page(offset, count)

	return out
}
