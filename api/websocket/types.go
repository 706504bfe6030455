package websocket

type ConnectParams struct {
	Token    string `form:"token"`                       // jwt token for creator channels
	Channels string `form:"channels" binding:"max=512"` // comma separated, defaults to the public feed
}
