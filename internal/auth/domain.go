package auth

import "time"

// Owner represents a tenant account. Every vendor, buyer, item, stock and
// ledger record belongs to exactly one owner.
type Owner struct {
	ID           int64
	Name         string
	EmailID      string
	PhoneNumber  string
	Street       string
	City         string
	State        string
	PostalCode   string
	PasswordHash string
	CreatedAt    time.Time
}

// SignupInput carries the fields needed to register a new owner.
type SignupInput struct {
	Name        string
	EmailID     string
	PhoneNumber string
	Street      string
	City        string
	State       string
	PostalCode  string
	Password    string
}
