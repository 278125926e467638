package assuan

import (
	"fmt"
	"strings"
)

// OptionKind identifies an OPTION sub-directive.
type OptionKind int

// Option kinds, one per recognised OPTION name. See optionTable for the
// wire names and which ones are flags.
const (
	OptConstraintsEnforce OptionKind = iota
	OptConstraintsHintShort
	OptConstraintsHintLong
	OptFormattedPassphrase
	OptFormattedPassphraseHint
	OptTTYName
	OptTTYType
	OptLCCType
	OptLCMessages
	OptDefaultOk
	OptDefaultCancel
	OptDefaultPrompt
	OptDefaultYes
	OptDefaultNo
	OptDefaultPwmngr
	OptDefaultCFVisi
	OptDefaultTTVisi
	OptDefaultTTHide
	OptDefaultCapsHint
	OptTouchFile
	OptOwner
	OptAllowExternalPasswordCache
	OptNoGrab
)

type optionEntry struct {
	kind OptionKind
	// flag options accept no value at all.
	flag bool
}

var optionTable = map[string]optionEntry{
	"constraints-enforce":           {kind: OptConstraintsEnforce, flag: true},
	"constraints-hint-short":        {kind: OptConstraintsHintShort},
	"constraints-hint-long":         {kind: OptConstraintsHintLong},
	"formatted-passphrase":          {kind: OptFormattedPassphrase, flag: true},
	"formatted-passphrase-hint":     {kind: OptFormattedPassphraseHint},
	"ttyname":                       {kind: OptTTYName},
	"ttytype":                       {kind: OptTTYType},
	"lc-ctype":                      {kind: OptLCCType},
	"lc-messages":                   {kind: OptLCMessages},
	"default-ok":                    {kind: OptDefaultOk},
	"default-cancel":                {kind: OptDefaultCancel},
	"default-prompt":                {kind: OptDefaultPrompt},
	"default-yes":                   {kind: OptDefaultYes},
	"default-no":                    {kind: OptDefaultNo},
	"default-pwmngr":                {kind: OptDefaultPwmngr},
	"default-cf-visi":               {kind: OptDefaultCFVisi},
	"default-tt-visi":               {kind: OptDefaultTTVisi},
	"default-tt-hide":               {kind: OptDefaultTTHide},
	"default-capshint":              {kind: OptDefaultCapsHint},
	"touch-file":                    {kind: OptTouchFile},
	"owner":                         {kind: OptOwner},
	"allow-external-password-cache": {kind: OptAllowExternalPasswordCache, flag: true},
	"no-grab":                       {kind: OptNoGrab, flag: true},
}

var optionNames = func() map[OptionKind]string {
	m := make(map[OptionKind]string, len(optionTable))
	for name, entry := range optionTable {
		m[entry.kind] = name
	}
	return m
}()

// String returns the wire name of k.
func (k OptionKind) String() string {
	if name, ok := optionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OptionKind(%d)", int(k))
}

// IsFlag reports whether k is a value-less option.
func (k OptionKind) IsFlag() bool {
	return optionTable[k.String()].flag
}

// Option is a decoded OPTION argument. Value is empty for flags.
type Option struct {
	Kind  OptionKind
	Value string
}

func (o Option) String() string {
	if o.Kind.IsFlag() {
		return o.Kind.String()
	}
	return o.Kind.String() + "=" + o.Value
}

// ParseOption decodes the text following "OPTION ". The text is split at the
// first '='; flags only match when no value is present.
func ParseOption(text string) (Option, error) {
	name, value, _ := strings.Cut(text, "=")
	entry, ok := optionTable[name]
	if !ok || (entry.flag && value != "") {
		return Option{}, &ParseError{Kind: ParseUnknownOption, Raw: text}
	}
	if entry.flag {
		return Option{Kind: entry.kind}, nil
	}
	return Option{Kind: entry.kind, Value: value}, nil
}
