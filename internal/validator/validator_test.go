package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be more than 500 characters long")
	v.Check(true, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)
}

func TestHelpers(t *testing.T) {
	assert.True(t, NotBlank("x"))
	assert.False(t, NotBlank(" \t\n"))

	assert.True(t, MaxChars("héllo", 5))
	assert.False(t, MaxChars("héllo!", 5))

	assert.True(t, Between(0, 0, 5))
	assert.True(t, Between(5, 0, 5))
	assert.False(t, Between(6, 0, 5))

	assert.True(t, In("rating", "title", "rating"))
	assert.False(t, In("isbn", "title", "rating"))
}

func TestISBNRX(t *testing.T) {
	for _, ok := range []string{"9780735211292", "080442957X", "0804429579"} {
		assert.True(t, Matches(ok, ISBNRX), ok)
	}
	for _, bad := range []string{"", "978073521129", "97807352112921", "978-0735211292", "X804429579"} {
		assert.False(t, Matches(bad, ISBNRX), bad)
	}
}

func TestDateRX(t *testing.T) {
	assert.True(t, Matches("2024-02-25", DateRX))
	assert.False(t, Matches("2024-2-25", DateRX))
	assert.False(t, Matches("25/02/2024", DateRX))
}
