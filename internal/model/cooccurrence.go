package model

// TagCooccurrence counts documents tagged with both a person and a
// project, system or organization.
type TagCooccurrence struct {
	PersonName string `json:"person_name"`
	OtherName  string `json:"other_name"`
	DocCount   int    `json:"doc_count"`
}
