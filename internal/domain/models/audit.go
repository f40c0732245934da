package models

import "time"

type AuditAction string

const (
	AuditAdd    AuditAction = "ADD"
	AuditUpdate AuditAction = "UPDATE"
)

type AuditLog struct {
	ID        int64       `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UserEmail string      `json:"userEmail"`
	Action    AuditAction `json:"action"`
	Element   string      `json:"element"`
	ElementID int64       `json:"elementId"`
}
