package versions

// Manifest keys read by the registry.
const (
	ManifestSDKVersionKey = "sdkVersion"
	ManifestVerifiedKey   = "isVerified"
)

// Manifest is an externally authored application manifest. It is untyped; only
// a handful of fields are interpreted and everything else is ignored.
type Manifest map[string]any

// SDKVersion returns the requested SDK version. A missing, empty or non-string
// field reports ok == false.
func (m Manifest) SDKVersion() (version string, ok bool) {
	if m == nil {
		return "", false
	}
	raw, present := m[ManifestSDKVersionKey]
	if !present {
		return "", false
	}
	s, isString := raw.(string)
	if !isString || s == "" {
		return "", false
	}
	return s, true
}

// hasMalformedSDKVersion reports a present but unusable sdkVersion field.
func (m Manifest) hasMalformedSDKVersion() bool {
	raw, present := m[ManifestSDKVersionKey]
	if !present || raw == nil {
		return false
	}
	s, isString := raw.(string)
	return !isString || s == ""
}

// IsVerified reports whether the manifest was signature-verified by the host.
// Anything other than boolean true counts as unverified.
func (m Manifest) IsVerified() bool {
	v, _ := m[ManifestVerifiedKey].(bool)
	return v
}
