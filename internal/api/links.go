package api

import "github.com/google/uuid"

// Links carries the hypermedia relations embedded in resource
// representations under the "_links" key. Only the relations that make
// sense for a given resource are populated; the rest are omitted from
// the serialized form.
type Links struct {
	Self    string `json:"self"`
	Update  string `json:"update,omitempty"`
	Delete  string `json:"delete,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Games   string `json:"games,omitempty"`
	Respond string `json:"respond,omitempty"`
	Cancel  string `json:"cancel,omitempty"`
}

// buildUserLinks returns the relations for a user resource. The games
// relation points at the search endpoint because the plain collection
// endpoint takes no filters.
func buildUserLinks(userID uuid.UUID) Links {
	self := "/users/" + userID.String()
	return Links{
		Self:   self,
		Update: self,
		Delete: self,
		Games:  "/games/search?owner_id=" + userID.String(),
	}
}

// buildGameLinks returns the relations for a game resource, including a
// link back to its current owner.
func buildGameLinks(gameID, ownerID uuid.UUID) Links {
	self := "/games/" + gameID.String()
	return Links{
		Self:   self,
		Update: self,
		Delete: self,
		Owner:  "/users/" + ownerID.String(),
	}
}

// buildTradeOfferLinks returns the relations for a trade offer resource.
// Respond and cancel point at the same resource URL; the distinction is
// the HTTP method (PATCH to respond, DELETE to cancel).
func buildTradeOfferLinks(offerID uuid.UUID) Links {
	self := "/trade-offers/" + offerID.String()
	return Links{
		Self:    self,
		Respond: self,
		Cancel:  self,
	}
}
