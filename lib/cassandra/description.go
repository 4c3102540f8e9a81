package cassandra

// Description - maps each column family name to its attributes (for example {"Type": "Standard"})
type Description map[string]map[string]string

const attributeType = "Type"

// Type - returns the declared type of a column family and if the column family is known
func (d Description) Type(columnFamily string) (string, bool) {

	attributes := d[columnFamily]
	if len(attributes) == 0 {
		return "", false
	}

	return attributes[attributeType], true
}

// Copy - deep copies the description
func (d Description) Copy() Description {

	if d == nil {
		return nil
	}

	c := make(Description, len(d))
	for cf, attributes := range d {
		ca := make(map[string]string, len(attributes))
		for k, v := range attributes {
			ca[k] = v
		}
		c[cf] = ca
	}

	return c
}
