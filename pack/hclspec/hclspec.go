package hclspec

type File struct {
	Pack *Pack `hcl:"pack,block"`
}

type Pack struct {
	Name       string      `hcl:"name,label"`
	Version    string      `hcl:"version,optional"`
	Components []Component `hcl:"component,block"`
	Include    []string    `hcl:"include,optional"`
	Keep       []string    `hcl:"keep,optional"`
	Ignore     []string    `hcl:"ignore,optional"`
}

type Component struct {
	UID       string `hcl:"uid"`
	Version   string `hcl:"version"`
	Important bool   `hcl:"important,optional"`
}
