package gateway

import (
	"time"

	lkauth "github.com/livekit/protocol/auth"

	"github.com/eleven-am/align-backend/internal/shared"
)

const roomTokenTTL = 24 * time.Hour

// RoomTokenService mints LiveKit access tokens for clients that publish
// their camera track to a room the detector sidecar consumes. The backend
// never touches media; it only signs the grant.
type RoomTokenService struct {
	apiKey    string
	apiSecret string
	url       string
}

func NewRoomTokenService(apiKey, apiSecret, url string) *RoomTokenService {
	return &RoomTokenService{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		url:       url,
	}
}

func (s *RoomTokenService) Configured() bool {
	return s.apiKey != "" && s.apiSecret != ""
}

func (s *RoomTokenService) URL() string {
	return s.url
}

// MintJoinToken grants publish-only access to a fresh room. Subscribing is
// withheld: the client has nothing to watch, it only feeds the detector.
func (s *RoomTokenService) MintJoinToken(identity string) (token, room string, err error) {
	room = shared.NewID("room_")

	grant := &lkauth.VideoGrant{
		RoomJoin: true,
		Room:     room,
	}
	grant.SetCanPublish(true)
	grant.SetCanSubscribe(false)

	at := lkauth.NewAccessToken(s.apiKey, s.apiSecret)
	at.SetIdentity(identity).
		SetValidFor(roomTokenTTL).
		SetVideoGrant(grant)

	token, err = at.ToJWT()
	return token, room, err
}
