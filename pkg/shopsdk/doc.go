/*
Package shopsdk is a Go client for the shopcart HTTP API.

An SDKClient covers the public endpoints and logs in to produce a Session:

	client := shopsdk.NewSDKClient("http://localhost:8080")

	if err := client.Register(ctx, "alice", "s3cret!"); err != nil {
		...
	}
	session, err := client.Login(ctx, "alice", "s3cret!")

A Session carries the bearer token for the cart endpoints:

	item, err := session.AddToCart(ctx, productID, 2)
	items, err := session.ListCart(ctx)
	err = session.Logout(ctx)

Access tokens cannot be refreshed. Once a Session expires every call returns
ErrSessionExpired and the caller logs in again.

Non-2xx responses are returned as *APIError carrying the status code and the
detail string from the body.
*/
package shopsdk
