package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"

	"techsocial/internal/utils"
)

// Names under which the auth flow stores its two credentials.
const (
	KeyUserSecret = "userSecret"
	KeyUserUUID   = "userUUID"
)

// CredentialStore is an opaque key/value secret store.
type CredentialStore interface {
	Save(key, value string) error
	Get(key string) (string, bool)
	Delete(key string) error
}

const keyIterations = 4096

// envelope is the on-disk shape: a salted key derivation plus one sealed box
// holding the whole key/value map.
type envelope struct {
	Salt  string `json:"salt"`
	Nonce string `json:"nonce"`
	Box   string `json:"box"`
}

// FileStore keeps credentials in a single file, encrypted at rest with a key
// derived from a passphrase. The client-side stand-in for a system keychain.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
	log        *slog.Logger
}

func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{
		path:       path,
		passphrase: passphrase,
		log:        slog.Default().With("component", "credentials"),
	}
}

func (s *FileStore) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, salt, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.persist(values, salt)
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, _, err := s.load()
	if err != nil {
		s.log.Warn("could not read credential store", "error", err)
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, salt, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.persist(values, salt)
}

// load decrypts the stored map. A missing file is an empty store, not an
// error; a file that does not decrypt (wrong passphrase, corruption) is.
func (s *FileStore) load() (map[string]string, []byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil, nil
	}
	if err != nil {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "could not read "+s.path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "credential file is malformed", err)
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "credential file is malformed", err)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonceBytes) != 24 {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "credential file is malformed", err)
	}
	box, err := base64.StdEncoding.DecodeString(env.Box)
	if err != nil {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "credential file is malformed", err)
	}

	var nonce [24]byte
	copy(nonce[:], nonceBytes)
	key := s.deriveKey(salt)

	plain, ok := secretbox.Open(nil, box, &nonce, &key)
	if !ok {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "could not decrypt credential file", nil)
	}

	values := map[string]string{}
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, nil, utils.NewAppError(utils.ErrCredentialStore, "credential file is malformed", err)
	}
	return values, salt, nil
}

func (s *FileStore) persist(values map[string]string, salt []byte) error {
	if salt == nil {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return utils.NewAppError(utils.ErrCredentialStore, "could not generate salt", err)
		}
	}

	plain, err := json.Marshal(values)
	if err != nil {
		return utils.NewAppError(utils.ErrCredentialStore, "could not encode credentials", err)
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return utils.NewAppError(utils.ErrCredentialStore, "could not generate nonce", err)
	}

	key := s.deriveKey(salt)
	box := secretbox.Seal(nil, plain, &nonce, &key)

	env := envelope{
		Salt:  base64.StdEncoding.EncodeToString(salt),
		Nonce: base64.StdEncoding.EncodeToString(nonce[:]),
		Box:   base64.StdEncoding.EncodeToString(box),
	}
	data, err := json.Marshal(&env)
	if err != nil {
		return utils.NewAppError(utils.ErrCredentialStore, "could not encode credential file", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return utils.NewAppError(utils.ErrCredentialStore, "could not write "+s.path, err)
	}
	return nil
}

func (s *FileStore) deriveKey(salt []byte) [32]byte {
	var key [32]byte
	copy(key[:], pbkdf2.Key([]byte(s.passphrase), salt, keyIterations, 32, sha256.New))
	return key
}
