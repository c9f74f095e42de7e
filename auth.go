package chimpmock

import "encoding/base64"

// Mailchimp ignores the username of basic auth; only the API key matters.
const basicAuthUser = "anystring"

func basicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
