// Package vocab holds the fixed vocabularies named in spec.md §6: HTTP
// methods, the destructive-method gate, suspicious mass-assignment
// field names, sensitive severity-escalating field names, the ID-name
// vocabulary used by ID Inference, and the payment-domain deny list
// that the capture stage is responsible for enforcing upstream.
package vocab

import "strings"

// Methods is the fixed method vocabulary (spec.md §6).
var Methods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"}

// Destructive lists methods gated behind allow_destructive.
var Destructive = map[string]bool{"DELETE": true}

// BodyMethods are the methods whose TestCase body is honored.
var BodyMethods = map[string]bool{"POST": true, "PUT": true, "PATCH": true}

// SuspiciousFields is the MASS_ASSIGNMENT vocabulary.
var SuspiciousFields = []string{
	"isAdmin", "is_admin", "admin", "role", "roles",
	"isOwner", "is_owner", "owner",
	"permissions", "permission",
	"accessLevel", "access_level",
	"privileges", "privilege",
	"superuser", "super_user", "isSuperuser", "is_superuser",
}

// SensitiveFields escalate a diff to HIGH severity when touched
// (spec.md §4.5 rule 2).
var SensitiveFields = []string{
	"ownerId", "owner_id", "userId", "user_id", "email",
	"role", "roles", "isAdmin", "is_admin",
	"permissions", "accessLevel", "access_level",
}

// IDNames is the ID-name vocabulary used by ID Inference (spec.md §4.2).
var IDNames = []string{
	"id", "userId", "user_id", "projectId", "project_id",
	"accountId", "account_id", "resourceId", "resource_id",
}

// PaymentKeywords is the payment-domain deny list enforced upstream at
// capture. The generator also consults it defensively (SPEC_FULL.md
// §3.2) in case an unfiltered endpoint slips through.
var PaymentKeywords = []string{
	"payment", "checkout", "pay", "billing",
	"credit-card", "creditcard", "purchase",
	"subscribe", "subscription", "upgrade", "premium",
}

// MatchesAny reports whether name contains any of the vocabulary
// entries as a case-insensitive substring.
func MatchesAny(name string, vocabulary []string) bool {
	lower := strings.ToLower(name)
	for _, v := range vocabulary {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// IsDestructive reports whether method is gated behind allow_destructive.
func IsDestructive(method string) bool {
	return Destructive[strings.ToUpper(method)]
}

// IsBodyMethod reports whether method carries a JSON body in this pipeline.
func IsBodyMethod(method string) bool {
	return BodyMethods[strings.ToUpper(method)]
}

// IsPaymentPath reports whether path matches the payment-domain deny list.
func IsPaymentPath(path string) bool {
	return MatchesAny(path, PaymentKeywords)
}
