package models

import "database/sql"

type BudgetItem struct {
	ID                string
	BudgetID          string
	ReferenceItemID   sql.NullString
	CustomCode        sql.NullString
	CustomDescription sql.NullString
	ParentID          sql.NullString
	Numbering         string
	ItemType          string
	Quantity          string
	UnitPrice         string
	BDIApplied        string
}

type BDIConfig struct {
	BudgetID       string
	Administration string
	Insurance      string
	Risk           string
	Financial      string
	Profit         string
	PIS            string
	COFINS         string
	ISS            string
	CPRB           string
}
