package templates

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"sync"
	texttemplate "text/template"

	"gopkg.in/yaml.v3"
)

// Definition is one notification template as written in the YAML file.
type Definition struct {
	Subject string `yaml:"subject"`
	Email   string `yaml:"email"`
	SMS     string `yaml:"sms"`
}

type compiled struct {
	subject *texttemplate.Template
	email   *htmltemplate.Template
	sms     *texttemplate.Template
}

// Rendered holds the output of a template for every channel.
type Rendered struct {
	Subject string
	HTML    string
	SMS     string
}

// Registry holds compiled notification templates keyed by notification type.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*compiled
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*compiled)}
}

// LoadFile replaces the registry contents with the templates defined in path.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Load(data)
}

func (r *Registry) Load(data []byte) error {
	var file struct {
		Templates map[string]Definition `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	parsed := make(map[string]*compiled, len(file.Templates))
	for name, def := range file.Templates {
		c, err := compile(name, def)
		if err != nil {
			return err
		}
		parsed[name] = c
	}

	r.mu.Lock()
	r.templates = parsed
	r.mu.Unlock()
	return nil
}

func compile(name string, def Definition) (*compiled, error) {
	subject, err := texttemplate.New(name + ".subject").Option("missingkey=zero").Parse(def.Subject)
	if err != nil {
		return nil, fmt.Errorf("template %s subject: %w", name, err)
	}
	email, err := htmltemplate.New(name + ".email").Option("missingkey=zero").Parse(def.Email)
	if err != nil {
		return nil, fmt.Errorf("template %s email: %w", name, err)
	}
	sms, err := texttemplate.New(name + ".sms").Option("missingkey=zero").Parse(def.SMS)
	if err != nil {
		return nil, fmt.Errorf("template %s sms: %w", name, err)
	}
	return &compiled{subject: subject, email: email, sms: sms}, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

func (r *Registry) Render(name string, data map[string]interface{}) (*Rendered, error) {
	r.mu.RLock()
	c, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var subject, email, sms bytes.Buffer
	if err := c.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := c.email.Execute(&email, data); err != nil {
		return nil, fmt.Errorf("render %s email: %w", name, err)
	}
	if err := c.sms.Execute(&sms, data); err != nil {
		return nil, fmt.Errorf("render %s sms: %w", name, err)
	}

	return &Rendered{
		Subject: subject.String(),
		HTML:    email.String(),
		SMS:     sms.String(),
	}, nil
}
