package example

type ActorType string

const (
	ActorTypePerson ActorType = "person"
	ActorTypeTeam   ActorType = "team"
)

type SuggestionStatus string

const (
	SuggestionStatusPending SuggestionStatus = "pending"
)

type EdgeSource string

const (
	EdgeSourceExplicit EdgeSource = "explicit"
)

type Actor struct {
	Name string
	Type ActorType
}

type Suggestion struct {
	Status SuggestionStatus
}

type Edge struct {
	Source EdgeSource
}

func bad() {
	a := &Actor{}
	a.Type = "robot" // want "enum field Type assigned string literal"

	s := &Suggestion{}
	s.Status = "maybe" // want "enum field Status assigned string literal"

	_ = Edge{Source: "guessed"} // want "enum field Source assigned string literal"
}

func good() {
	a := &Actor{Name: "Ana"}
	a.Type = ActorTypePerson

	s := &Suggestion{}
	s.Status = SuggestionStatusPending

	_ = Edge{Source: EdgeSourceExplicit}
}

func alsoGood() {
	// Variable, not literal
	t := ActorTypeTeam
	a := &Actor{Type: t}
	_ = a
}
