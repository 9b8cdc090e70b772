// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for webhook requests.
package httperrors

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "ratatouille/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Category is a coarse classification of a transport error.
type Category string

const (
	CategoryTimeout           Category = "timeout"
	CategoryDNS               Category = "dns"
	CategoryConnectionRefused Category = "connection_refused"
	CategoryTLS               Category = "tls"
	CategoryCanceled          Category = "canceled"
	CategoryOther             Category = "other"
)

// Classify inspects a transport error and returns its category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return CategoryCanceled
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryConnectionRefused
	case isSSLError(err):
		return CategoryTLS
	default:
		return CategoryOther
	}
}

// FormatNetworkError shows a troubleshooting message for a failed webhook call
// and returns the error wrapped as apperrors.RequestFailed.
// action describes what was being done ("sending the query"), target is the webhook URL.
func FormatNetworkError(err error, action, target string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, action, ExtractHostFromURL(target))
	return apperrors.Wrap(apperrors.RequestFailed, action, err)
}

// displayErrorMessage shows a formatted error message to the user based on error type.
func displayErrorMessage(err error, action, host string) {
	switch Classify(err) {
	case CategoryCanceled:
		pterm.Warning.Printf("Request canceled while %s\n", action)
	case CategoryTimeout:
		showTimeoutError(action)
	case CategoryDNS:
		showDNSError(action, host)
	case CategoryConnectionRefused:
		showConnectionRefusedError(action)
	case CategoryTLS:
		showSSLError(action)
	default:
		showGenericError(action, host, err.Error())
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// showTimeoutError displays a user-friendly timeout error message.
func showTimeoutError(action string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", action)
	pterm.Println()
	pterm.Println("The webhook took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • The automation workflow is still running or stuck")
	pterm.Println("  • Network firewall is blocking the connection")
	pterm.Println()
}

// showDNSError displays a user-friendly DNS error message.
func showDNSError(action, host string) {
	pterm.Printf("🌐 Cannot resolve %s while %s\n", host, action)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • The webhook URL in your configuration ('ratatouille config')")
	pterm.Println()
}

// showConnectionRefusedError displays a user-friendly connection refused error message.
func showConnectionRefusedError(action string) {
	pterm.Printf("🚫 Connection refused while %s\n", action)
	pterm.Println()
	pterm.Println("The webhook server is not accepting connections. This could mean:")
	pterm.Println("  • The automation service is temporarily down")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

// showSSLError displays a user-friendly SSL/TLS error message.
func showSSLError(action string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", action)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. Try:")
	pterm.Println("  • Check your system date and time")
	pterm.Println("  • Verify network proxy settings")
	pterm.Println()
}

// showGenericError displays a generic error message for unrecognized errors.
func showGenericError(action, host, errDetails string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, action)
	pterm.Println()

	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
