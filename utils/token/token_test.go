package token

import (
	"bizdesk-backend/models"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// SignerTestSuite defines a test suite for the impersonation token signer
type SignerTestSuite struct {
	suite.Suite
	signer *Signer
	claims *models.ImpersonationClaims
}

// SetupTest runs before each test
func (suite *SignerTestSuite) SetupTest() {
	suite.signer = NewSigner("test-secret-key-for-testing", "TestApp")
	suite.claims = &models.ImpersonationClaims{
		OriginalUserID:     "super-admin-123",
		OriginalRole:       models.UserRoleSuperAdmin,
		OriginalEmail:      "root@bizdesk.io",
		ImpersonatedUserID: "admin-456",
		ImpersonatedRole:   models.UserRoleAdmin,
		ImpersonatedEmail:  "admin@acme.com",
		CompanyID:          "company-789",
		CompanyName:        "Acme Corp",
		IsImpersonating:    true,
	}
}

// TestSignAndVerifyRoundTrip tests that claims survive a sign/verify cycle
func (suite *SignerTestSuite) TestSignAndVerifyRoundTrip() {
	tokenString, err := suite.signer.Sign(suite.claims, time.Hour)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), tokenString)

	verified, err := suite.signer.Verify(tokenString)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), verified)

	assert.Equal(suite.T(), suite.claims.OriginalUserID, verified.OriginalUserID)
	assert.Equal(suite.T(), suite.claims.OriginalRole, verified.OriginalRole)
	assert.Equal(suite.T(), suite.claims.OriginalEmail, verified.OriginalEmail)
	assert.Equal(suite.T(), suite.claims.ImpersonatedUserID, verified.ImpersonatedUserID)
	assert.Equal(suite.T(), suite.claims.ImpersonatedRole, verified.ImpersonatedRole)
	assert.Equal(suite.T(), suite.claims.ImpersonatedEmail, verified.ImpersonatedEmail)
	assert.Equal(suite.T(), suite.claims.CompanyID, verified.CompanyID)
	assert.Equal(suite.T(), suite.claims.CompanyName, verified.CompanyName)
	assert.True(suite.T(), verified.IsImpersonating)
	assert.NotZero(suite.T(), verified.Timestamp)
}

// TestSignDoesNotMutateInput tests that the caller's claims stay untouched
func (suite *SignerTestSuite) TestSignDoesNotMutateInput() {
	_, err := suite.signer.Sign(suite.claims, time.Hour)
	assert.NoError(suite.T(), err)

	assert.Zero(suite.T(), suite.claims.Timestamp)
	assert.Nil(suite.T(), suite.claims.ExpiresAt)
	assert.Empty(suite.T(), suite.claims.ID)
}

// TestSignPreservesExistingTimestamp tests that an issuance timestamp set
// by the caller is not overwritten
func (suite *SignerTestSuite) TestSignPreservesExistingTimestamp() {
	suite.claims.Timestamp = 1700000000000

	tokenString, err := suite.signer.Sign(suite.claims, time.Hour)
	assert.NoError(suite.T(), err)

	verified, err := suite.signer.Verify(tokenString)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1700000000000), verified.Timestamp)
}

// TestVerifyExpiredToken tests that a token past its TTL is rejected
func (suite *SignerTestSuite) TestVerifyExpiredToken() {
	tokenString, err := suite.signer.Sign(suite.claims, -time.Minute)
	assert.NoError(suite.T(), err)

	verified, err := suite.signer.Verify(tokenString)
	assert.Nil(suite.T(), verified)
	assert.ErrorIs(suite.T(), err, ErrTokenExpired)
}

// TestVerifyTamperedSignature tests that a corrupted signature is rejected
func (suite *SignerTestSuite) TestVerifyTamperedSignature() {
	tokenString, err := suite.signer.Sign(suite.claims, time.Hour)
	assert.NoError(suite.T(), err)

	// Flip the first character of the signature segment
	parts := strings.Split(tokenString, ".")
	assert.Len(suite.T(), parts, 3)
	sig := parts[2]
	if sig[0] == 'A' {
		parts[2] = "B" + sig[1:]
	} else {
		parts[2] = "A" + sig[1:]
	}
	tampered := strings.Join(parts, ".")

	verified, err := suite.signer.Verify(tampered)
	assert.Nil(suite.T(), verified)
	assert.ErrorIs(suite.T(), err, ErrInvalidSignature)
}

// TestVerifyWrongSecret tests that a token signed with a different secret
// fails signature verification
func (suite *SignerTestSuite) TestVerifyWrongSecret() {
	otherSigner := NewSigner("completely-different-secret", "TestApp")

	tokenString, err := otherSigner.Sign(suite.claims, time.Hour)
	assert.NoError(suite.T(), err)

	verified, err := suite.signer.Verify(tokenString)
	assert.Nil(suite.T(), verified)
	assert.ErrorIs(suite.T(), err, ErrInvalidSignature)
}

// TestVerifyMalformedToken tests that garbage input is rejected as malformed
func (suite *SignerTestSuite) TestVerifyMalformedToken() {
	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		verified, err := suite.signer.Verify(input)
		assert.Nil(suite.T(), verified)
		assert.ErrorIs(suite.T(), err, ErrMalformedToken)
	}
}

// TestVerifyRejectsUnsignedToken tests that tokens declaring a non-HMAC
// algorithm never reach signature verification
func (suite *SignerTestSuite) TestVerifyRejectsUnsignedToken() {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, suite.claims)
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(suite.T(), err)

	verified, err := suite.signer.Verify(tokenString)
	assert.Nil(suite.T(), verified)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, ErrInvalidClaims)
}

// TestRegisteredClaimsPopulated tests that standard JWT claims are set
func (suite *SignerTestSuite) TestRegisteredClaimsPopulated() {
	before := time.Now().Add(-time.Second)
	tokenString, err := suite.signer.Sign(suite.claims, 24*time.Hour)
	assert.NoError(suite.T(), err)

	verified, err := suite.signer.Verify(tokenString)
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), "TestApp", verified.Issuer)
	assert.Equal(suite.T(), suite.claims.ImpersonatedUserID, verified.Subject)
	assert.NotEmpty(suite.T(), verified.ID)
	assert.True(suite.T(), verified.ExpiresAt.After(before.Add(23*time.Hour)))
}

// TestSignerTestSuite runs the test suite
func TestSignerTestSuite(t *testing.T) {
	suite.Run(t, new(SignerTestSuite))
}
