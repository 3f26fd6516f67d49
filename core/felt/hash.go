package felt

type ClassHash Felt

func (h *ClassHash) String() string {
	return (*Felt)(h).String()
}

func (h *ClassHash) Canonical() string {
	return (*Felt)(h).Canonical()
}

func (h *ClassHash) UnmarshalJSON(data []byte) error {
	return (*Felt)(h).UnmarshalJSON(data)
}

func (h *ClassHash) MarshalJSON() ([]byte, error) {
	return (*Felt)(h).MarshalJSON()
}

func (h *ClassHash) IsZero() bool {
	return (*Felt)(h).IsZero()
}

func (h *ClassHash) Equal(b *ClassHash) bool {
	return (*Felt)(h).Equal((*Felt)(b))
}
