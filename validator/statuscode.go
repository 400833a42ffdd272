package validator

import (
	"mime"
	"strconv"
	"strings"
)

// standardStatusCodes lists the status codes defined by RFC 9110 and its
// registered extensions.
var standardStatusCodes = map[int]bool{
	100: true, 101: true, 102: true, 103: true,
	200: true, 201: true, 202: true, 203: true, 204: true, 205: true, 206: true, 207: true, 208: true, 226: true,
	300: true, 301: true, 302: true, 303: true, 304: true, 305: true, 307: true, 308: true,
	400: true, 401: true, 402: true, 403: true, 404: true, 405: true, 406: true, 407: true, 408: true,
	409: true, 410: true, 411: true, 412: true, 413: true, 414: true, 415: true, 416: true, 417: true,
	418: true, 421: true, 422: true, 423: true, 424: true, 425: true, 426: true, 428: true, 429: true,
	431: true, 451: true,
	500: true, 501: true, 502: true, 503: true, 504: true, 505: true, 506: true, 507: true, 508: true,
	510: true, 511: true,
}

// validStatusCode reports whether code may key a responses object:
// "default", an x- extension, a range such as "4XX", or a number from 100
// to 599.
func validStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != 3 {
		return false
	}
	if code[1:] == "XX" {
		return code[0] >= '1' && code[0] <= '5'
	}
	n, err := strconv.Atoi(code)
	return err == nil && code[0] != '+' && code[0] != '-' && n >= 100 && n <= 599
}

// isStandardStatusCode reports whether a numeric code is a registered HTTP
// status. Non-numeric keys are never reported as non-standard.
func isStandardStatusCode(code string) bool {
	n, err := strconv.Atoi(code)
	if err != nil {
		return true
	}
	return standardStatusCodes[n]
}

// validMediaType validates a media type, allowing "*/*" and "type/*" ranges.
func validMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}
	if strings.HasPrefix(mediaType, "*/") {
		return false
	}
	if major, ok := strings.CutSuffix(mediaType, "/*"); ok {
		return major != "" && major != "*" && !strings.Contains(major, "/")
	}
	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil && strings.Contains(mediaType, "/")
}
