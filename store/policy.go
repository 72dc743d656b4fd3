package store

import "github.com/polashmiya/polash-dairy-api/models"

// CanModify decides whether an actor may mutate a resource. Admins may modify
// anything; everyone else only what they own. The same rule applies to post
// update/delete (owner = post author) and comment delete (owner = comment
// user).
func CanModify(actorID uint, actorRole string, ownerID uint) bool {
	return actorRole == models.RoleAdmin || actorID == ownerID
}
