package registry

// NewCallbackFile registers a dynamic file whose content is entirely
// caller-supplied (the CHANGING_FILE_* demo option): a file whose bytes
// vary per read without going through the memory-backed or
// stdout-ring-buffer content paths. It exercises the exact same
// allocation and dispatch code as any other dynamic file.
func (r *Registry) NewCallbackFile(name []uint16, size uint64, content ContentFunc) (*DynamicFile, error) {
	file, err := r.Add(name, size, content)
	if err != nil {
		return nil, err
	}
	if err := r.Update(file, size); err != nil {
		return nil, err
	}
	return file, nil
}
