// Package order contains the maintenance order entity, its canonical file
// schema and the pure rules that guard its lifecycle.
package order

import (
	"strings"
	"time"

	"github.com/example/maintlog/internal/core/table"
)

// Column names as written in the dataset file.
const (
	ColID          = "ID"
	ColDescription = "Descrição"
	ColOpenDate    = "Data"
	ColOpenTime    = "Hora Abertura"
	ColRequester   = "Solicitante"
	ColLocation    = "Local"
	ColCategory    = "Tipo"
	ColStatus      = "Status"
	ColDoneDate    = "Data Conclusão"
	ColDoneTime    = "Hora Conclusão"
	ColExecutor1   = "Executante1"
	ColExecutor2   = "Executante2"
	ColUrgent      = "Urgente"

	colLegacyExecutor = "Executante"
)

// Schema is the canonical maintenance order table.
var Schema = &table.Schema{
	Name:     "orders",
	IDColumn: ColID,
	Columns: []table.Column{
		{Name: ColID, Match: table.MatchExact},
		{Name: ColDescription, Match: table.MatchText},
		{Name: ColOpenDate, Match: table.MatchText},
		{Name: ColOpenTime, Match: table.MatchText},
		{Name: ColRequester, Match: table.MatchText},
		{Name: ColLocation, Match: table.MatchText},
		{Name: ColCategory, Match: table.MatchExact},
		{Name: ColStatus, Match: table.MatchExact},
		{Name: ColDoneDate, Match: table.MatchText, Text: true},
		{Name: ColDoneTime, Match: table.MatchText, Text: true},
		{Name: ColExecutor1, Match: table.MatchText, Text: true},
		{Name: ColExecutor2, Match: table.MatchText, Text: true},
		{Name: ColUrgent, Match: table.MatchExact, Text: true},
	},
	Renames: []table.Rename{
		{From: colLegacyExecutor, To: []string{ColExecutor1, ColExecutor2}},
	},
}

// Status is the lifecycle state of an order.
type Status string

// Order statuses.
const (
	StatusPending    Status = "Pending"
	StatusPaused     Status = "Paused"
	StatusInProgress Status = "In-Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusPaused, StatusInProgress, StatusDone}

// statusLabels are the on-disk spellings shared with other copies of the
// dataset.
var statusLabels = map[Status]string{
	StatusPending:    "Pendente",
	StatusPaused:     "Pausado",
	StatusInProgress: "Em execução",
	StatusDone:       "Concluído",
}

// Label returns the on-disk spelling of s.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus accepts either the status name or its on-disk label, ignoring
// case.
func ParseStatus(v string) (Status, bool) {
	key := table.Fold(strings.TrimSpace(v))
	for _, s := range Statuses {
		if key == table.Fold(string(s)) || key == table.Fold(statusLabels[s]) {
			return s, true
		}
	}
	switch key {
	case "in progress", "inprogress", "in_progress":
		return StatusInProgress, true
	}
	return "", false
}

// Categories are the maintenance disciplines an order can be filed under.
var Categories = []string{
	"Elétrica",
	"Mecânica",
	"Refrigeração",
	"Hidráulica",
	"Civil",
	"Instalação",
}

// ParseCategory resolves v to a known category ignoring case. An empty value
// is valid and means "not yet classified".
func ParseCategory(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", true
	}
	key := table.Fold(v)
	for _, c := range Categories {
		if table.Fold(c) == key {
			return c, true
		}
	}
	return "", false
}

// Order is one maintenance order.
type Order struct {
	ID          int
	Description string
	OpenedAt    time.Time
	Requester   string
	Location    string
	Category    string
	Status      Status
	CompletedAt time.Time
	Executor1   string
	Executor2   string
	Urgent      bool
}

// IsDone reports whether the order is completed.
func (o *Order) IsDone() bool {
	return o.Status == StatusDone
}
