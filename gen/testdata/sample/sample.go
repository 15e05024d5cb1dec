package sample

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID      int
	Name    string
	tags    []string
	Created time.Time
	email   string
	_       int
}

func (u *User) Email() string     { return u.email }
func (u *User) SetEmail(e string) { u.email = e }
func (u User) GetAge() int        { return len(u.tags) }

func (u User) Greet(who string) string { return "hi " + who + " from " + u.Name }

func (u *User) Rename(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	u.Name = name
	return nil
}

func (u *User) Split() (string, string) {
	first, last, _ := strings.Cut(u.Name, " ")
	return first, last
}

func (u *User) Lookup(key string) (string, int, error) {
	for i, t := range u.tags {
		if t == key {
			return t, i, nil
		}
	}
	return "", -1, errors.New("not found")
}

func (u *User) Tag(tags ...string) { u.tags = append(u.tags, tags...) }
func (u *User) Touch()             { u.Created = time.Now() }

type Celsius float64

func (c Celsius) Fahrenheit() float64 { return float64(c)*9/5 + 32 }

type Reader interface {
	Read() string
}

type Box[T any] struct {
	V T
}

type empty struct{}

type account struct {
	id    int
	label string
}

func (a *account) Label() string     { return a.label }
func (a *account) SetLabel(l string) { a.label = l }
