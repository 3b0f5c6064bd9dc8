// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the acting staff member. The core trusts it as given;
// authentication happens entirely in AuthRequired.
type Identity interface {
	// StaffID returns the authenticated staff member's ID.
	StaffID() string
	// StaffName returns the display name carried in the token, if any.
	StaffName() string
	// Roles returns the staff member's assigned roles.
	Roles() []string
	// HasRole checks if the staff member has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the request carried a valid token.
	IsAuthenticated() bool
}

type identity struct {
	staffID       string
	staffName     string
	roles         []string
	authenticated bool
}

func (i *identity) StaffID() string {
	return i.staffID
}

func (i *identity) StaffName() string {
	return i.staffName
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if staff info is not present.
func GetIdentity(c *gin.Context) Identity {
	staffID := c.GetString(ContextStaffIDKey)
	if staffID == "" {
		return &identity{authenticated: false}
	}

	return &identity{
		staffID:       staffID,
		staffName:     c.GetString(ContextStaffNameKey),
		roles:         c.GetStringSlice(ContextRolesKey),
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the staff member is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
