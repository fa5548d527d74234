package models

import "github.com/oklog/ulid/v2"

// JournalEntry is one message of the player log
type JournalEntry struct {
	ID      ulid.ULID
	Date    Date
	Message string
}

// JournalState is the ordered player log
type JournalState struct {
	Entries []JournalEntry
}

// Add appends a message dated at the given in-game date
func (j *JournalState) Add(date Date, message string) {
	j.Entries = append(j.Entries, JournalEntry{ID: ulid.Make(), Date: date, Message: message})
}

// Installment is one scheduled payment of the hero's debt
type Installment struct {
	Amount int
	Due    Date
}

// DebtState is the repayment plan of the hero
type DebtState struct {
	Installments []Installment
}

// Total returns the sum still owed
func (d *DebtState) Total() int {
	total := 0
	for _, i := range d.Installments {
		total += i.Amount
	}
	return total
}
