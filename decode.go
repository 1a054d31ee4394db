package nlmsg

import "github.com/danderson/nlmsg/fragments"

// ParseAttributes decodes every attribute record in d with parse, in
// wire order.
//
// Decoding is all or nothing: the first malformed record or parse
// error is returned, and no attributes are returned with it.
// Repeated kinds are returned as-is, in order.
func ParseAttributes[A Attribute](d fragments.Decoder, parse func(fragments.Record) (A, error)) ([]A, error) {
	var ret []A
	for rec, err := range d.Records() {
		if err != nil {
			return nil, err
		}
		attr, err := parse(rec)
		if err != nil {
			return nil, err
		}
		ret = append(ret, attr)
	}
	return ret, nil
}

// UnmarshalTree decodes bs as a sequence of attributes using parse.
// Error offsets are relative to the start of bs.
func UnmarshalTree[A Attribute](bs []byte, parse func(fragments.Record) (A, error)) ([]A, error) {
	return ParseAttributes(fragments.Decoder{In: bs}, parse)
}
