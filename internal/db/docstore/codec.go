package docstore

import (
	"encoding/json"
	"fmt"
)

// unmarshalDoc decodes a raw query result row.
func unmarshalDoc(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
