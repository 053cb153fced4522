package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// outbound requests. The token itself is issued and refreshed by the host
// application; this module only attaches it.
const AccessTokenHeaderName = "Authorization"
