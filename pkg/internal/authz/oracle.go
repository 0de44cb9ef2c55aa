// Package authz holds the identity handle and the moderation permission
// oracle. Ban bookkeeping lives in an external service; this side only ever
// consumes the yes/no answers.
package authz

import "github.com/spf13/viper"

// Account is the opaque authenticated-user handle filled in by the HTTP
// middleware from the bearer token claims.
type Account struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Oracle answers whether a user may currently perform moderated actions.
type Oracle interface {
	MayPost(user Account) bool
	MayComment(user Account) bool
	MayFlag(user Account) bool
}

// O is the oracle consulted by the services. Defaults to allowing everyone
// minus the accounts listed under permissions.* in the settings; deployments
// with a moderation backend swap in their own implementation at boot.
var O Oracle = settingsOracle{}

type settingsOracle struct{}

func (settingsOracle) MayPost(user Account) bool {
	return !listed("permissions.no_post", user.ID)
}

func (settingsOracle) MayComment(user Account) bool {
	return !listed("permissions.no_comment", user.ID)
}

func (settingsOracle) MayFlag(user Account) bool {
	return !listed("permissions.no_flag", user.ID)
}

func listed(key string, id uint) bool {
	for _, entry := range viper.GetIntSlice(key) {
		if uint(entry) == id {
			return true
		}
	}
	return false
}
