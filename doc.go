/*
Package snekfetch is a small HTTP client with a fluent request builder.

	req, err := snekfetch.Post("https://example.com/api")
	if err != nil {
		return err
	}
	res, err := req.Set("X-Token", token).SendJSON(payload).Do()

A started request is an Exchange. Its result can be awaited (Wait, Then,
End) or its body read as it arrives (Stream); both may be used on the same
exchange and see the same bytes. Redirects are followed, gzip and deflate
bodies are decompressed, and JSON or urlencoded bodies are decoded into
Response.Body.
*/
package snekfetch
