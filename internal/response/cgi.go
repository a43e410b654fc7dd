package response

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/Brownie44l1/webserver/internal/request"
)

const (
	// CGIMarker identifies a submission to the one supported form endpoint.
	CGIMarker = "fake-cgi"
	// CGIAction is where the form submits.
	CGIAction = "/cgi/addnums.fake-cgi"
)

var cgiForm = `<html><head><title>AddNums</title></head><body>
<h1>AddNums</h1>
<form method="GET" action="` + CGIAction + `">
Enter your name and two numbers:<br>
<input type="text" name="person" size="20" value="YourName"><br>
<input type="text" name="num1" size="5" value="4"><br>
<input type="text" name="num2" size="5" value="5"><br>
<input type="submit" value="Submit Numbers">
</form>
</body></html>
`

// CGI emulates the addnums endpoint. A target carrying the marker and three
// positional query parameters (name, first number, second number) gets the
// sum; anything else gets the form. Non-integer numbers yield the 400 line.
func (b *Builder) CGI(target string) (*Response, error) {
	person, first, second, ok := cgiParams(target)
	if !ok {
		return withBody(New(StatusOK), ContentTypeHTML, []byte(cgiForm), b.placeholderLength()), nil
	}

	num1, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		perr := &request.ParseError{Kind: request.ErrBadNumber, Input: first}
		return BadRequest(perr), perr
	}
	num2, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		perr := &request.ParseError{Kind: request.ErrBadNumber, Input: second}
		return BadRequest(perr), perr
	}

	name := html.EscapeString(person)
	body := fmt.Sprintf(`<html><head><title>AddNums</title></head><body>
<h1>AddNums result</h1>
<p>Dear %s, the sum of %d and %d is %d.</p>
<a href="%s">Back</a>
</body></html>
`, name, num1, num2, num1+num2, CGIAction)

	return withBody(New(StatusOK), ContentTypeHTML, []byte(body), b.placeholderLength()), nil
}

// cgiParams splits the query string positionally. Keys are ignored.
func cgiParams(target string) (person, first, second string, ok bool) {
	if !strings.Contains(strings.ToLower(target), CGIMarker) {
		return "", "", "", false
	}
	_, query, found := strings.Cut(target, "?")
	if !found {
		return "", "", "", false
	}

	params := strings.Split(query, "&")
	if len(params) < 3 {
		return "", "", "", false
	}

	values := make([]string, 3)
	for i := range values {
		_, v, _ := strings.Cut(params[i], "=")
		if decoded, err := url.QueryUnescape(v); err == nil {
			v = decoded
		}
		values[i] = v
	}
	return values[0], values[1], values[2], true
}
