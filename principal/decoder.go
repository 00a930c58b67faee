package principal

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrDecode reports an access token whose payload cannot be mapped to
// a Principal. The session layer treats it like a failed refresh.
var ErrDecode = errors.New("malformed access token")

// Decode extracts the Principal from an access token's payload without
// verifying the signature - verification is the issuer's job, and the
// pair was either just returned by the service or is about to be
// re-validated by a refresh. Expiry is decoded as information for the
// scheduler, never to reject a token here.
func Decode(rawToken string) (*Principal, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "parse: %s", err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(ErrDecode, "claims are not a JSON object")
	}

	subject, err := subjectClaim(claims)
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return nil, errors.Wrap(ErrDecode, "missing role claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.Wrap(ErrDecode, "missing exp claim")
	}

	principal := &Principal{
		Subject:   subject,
		Role:      RoleType(role),
		ExpiresAt: time.Unix(int64(exp), 0),
	}

	if iat, ok := claims["iat"].(float64); ok {
		principal.IssuedAt = time.Unix(int64(iat), 0)
	}
	if username, ok := claims["username"].(string); ok {
		principal.Username = username
	}

	return principal, nil
}

// subjectClaim resolves the user's unique ID. The booking service's
// issuer puts it in "user_id" (as a number); "sub" is accepted as the
// standard fallback.
func subjectClaim(claims jwtlib.MapClaims) (string, error) {
	switch userID := claims["user_id"].(type) {
	case string:
		if userID != "" {
			return userID, nil
		}
	case float64:
		return fmt.Sprintf("%.0f", userID), nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", errors.Wrap(ErrDecode, "missing subject claim")
}
