// Package estaterec provides a Go client for the estaterec HTTP API.
//
//	client, _ := estaterec.New("http://localhost:10000")
//	_ = client.Register(ctx, "alice", "Secr3t!pw")
//	_, _ = client.Login(ctx, "alice", "Secr3t!pw")
//	n, _ := client.Upload(ctx, f, "listings.csv")
//	props, _ := client.Recommend(ctx, estaterec.Profile{Budget: 300000, MinBedrooms: 2})
//	_ = client.SubmitFeedback(ctx, props[0].ID, estaterec.Like)
//
// The client keeps the session cookie in its own jar, so calls made after
// Login are authenticated until Logout.
package estaterec
