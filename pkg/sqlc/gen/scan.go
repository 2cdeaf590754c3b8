package gen

import "github.com/funil-crm/funil/pkg/idwrap"

// nullableID converts a scanned BLOB column into an optional id.
func nullableID(data []byte) (*idwrap.IDWrap, error) {
	if data == nil {
		return nil, nil
	}
	id, err := idwrap.NewFromBytes(data)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// idArg converts an optional id into a bindable argument.
func idArg(id *idwrap.IDWrap) any {
	if id == nil {
		return nil
	}
	return id.Bytes()
}
