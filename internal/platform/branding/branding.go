// Package branding centralizes user-facing product naming so services and
// tools present a consistent identity.
package branding

// AppName is the product name shown in server identities and banners.
const AppName = "Yingzhou Chronicle"
