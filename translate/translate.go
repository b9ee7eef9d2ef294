// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate formats user-facing diagnostics for the host's
// locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = newPrinter()

func newPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("tsiram: locale: %v", err)
	}

	if len(locales) == 0 {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf format string for the host locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Errorf formats an en-US Sprintf format string for the host locale and
// returns it as an error.
func Errorf(key message.Reference, args ...any) error {
	return errors.New(printer.Sprintf(key, args...))
}
