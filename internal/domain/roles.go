package domain

import "strings"

// Role is an access level. The canonical admin token is lowercase "admin";
// legacy records carrying "Admin" are accepted by ParseRole.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps s to a canonical Role, ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)):
		return RoleAdmin, true
	case strings.EqualFold(strings.TrimSpace(s), string(RoleUser)):
		return RoleUser, true
	}
	return "", false
}

// Badge is a resident's subscription tier.
type Badge string

const (
	BadgeBronze   Badge = "bronze"
	BadgeSilver   Badge = "silver"
	BadgeGold     Badge = "gold"
	BadgePlatinum Badge = "platinum"
)

// ParseBadge maps s to a known Badge, ignoring case.
func ParseBadge(s string) (Badge, bool) {
	b := Badge(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BadgeBronze, BadgeSilver, BadgeGold, BadgePlatinum:
		return b, true
	}
	return "", false
}

// RequestStatus is the lifecycle state of a MealRequest.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusDelivered RequestStatus = "delivered"
)

// ParseRequestStatus maps s to a known RequestStatus, ignoring case.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusDelivered:
		return st, true
	}
	return "", false
}
