package core

import (
	"encoding/json"
	"strings"
)

// Ref is a reference to another document. The backend sends it either as a bare id
// or as the populated document; only the id and a display label are kept.
type Ref struct {
	ID    string
	Label string
}

func (r Ref) IsZero() bool { return r.ID == "" }

// String returns the label, falling back to the id.
func (r Ref) String() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		*r = Ref{}
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	var doc struct {
		ID          string `json:"_id"`
		AltID       string `json:"id"`
		Name        string `json:"name"`
		FullName    string `json:"fullName"`
		RoomNumber  string `json:"roomNumber"`
		StudentCode string `json:"studentCode"`
		Invoice     string `json:"invoiceNumber"`
		Username    string `json:"username"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.ID = doc.ID
	if r.ID == "" {
		r.ID = doc.AltID
	}
	for _, label := range []string{doc.Name, doc.FullName, doc.RoomNumber, doc.StudentCode, doc.Invoice, doc.Username} {
		if label != "" {
			r.Label = label
			break
		}
	}
	return nil
}
